package ebsdk

func New(awseb AWSEventBridgeClientV2) IO {
	return &Client{
		awseb: awseb,
	}
}

type Client struct {
	awseb AWSEventBridgeClientV2
}

var _ IO = &Client{}
