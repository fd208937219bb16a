package ebstore

import (
	"fmt"
	"regexp"
	"time"
)

// Key layout, segments separated by '#':
//
//	bus#<bus>                      bus record
//	evt#<bus>#<ts>#<id>            archived event
//	evtid#<bus>#<id>               event id index, value is the evt key
//	rule#<bus>#<name>              rule record
//	dlv#<bus>#<rule>#<ts>#<id>     delivery record
//
// Timestamps use a fixed-width UTC layout so keys sort chronologically.
// Bus and rule names are validated against nameRE, which keeps '#' out of
// key segments.
const keyTimeLayout = "2006-01-02T15:04:05.000000000Z"

var nameRE = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

func validName(s string) bool {
	return nameRE.MatchString(s)
}

func busKey(bus string) []byte {
	return []byte("bus#" + bus)
}

func busPrefix() []byte {
	return []byte("bus#")
}

func eventKey(bus string, ts time.Time, id string) []byte {
	return []byte(fmt.Sprintf("evt#%s#%s#%s", bus, ts.UTC().Format(keyTimeLayout), id))
}

func eventPrefix(bus string) []byte {
	return []byte("evt#" + bus + "#")
}

func eventIDKey(bus, id string) []byte {
	return []byte(fmt.Sprintf("evtid#%s#%s", bus, id))
}

func ruleKey(bus, name string) []byte {
	return []byte(fmt.Sprintf("rule#%s#%s", bus, name))
}

func rulePrefix(bus string) []byte {
	return []byte("rule#" + bus + "#")
}

func deliveryKey(bus, rule string, ts time.Time, id string) []byte {
	return []byte(fmt.Sprintf("dlv#%s#%s#%s#%s", bus, rule, ts.UTC().Format(keyTimeLayout), id))
}

func deliveryPrefix(bus, rule string) []byte {
	return []byte(fmt.Sprintf("dlv#%s#%s#", bus, rule))
}

// incrementBytes returns the smallest key greater than every key carrying
// the given prefix, used as the seek target for reverse iteration.
func incrementBytes(b []byte) []byte {
	result := make([]byte, len(b))
	copy(result, b)
	for i := len(result) - 1; i >= 0; i-- {
		if result[i] < 0xFF {
			result[i]++
			return result
		}
		result[i] = 0
	}
	return append(result, 0x00)
}
