package gamesense

import (
	"encoding/json"
	"os"

	"github.com/junsooki/keyscreen/internal/errors"
)

var ErrNoAddress = errors.New(`daemon address unknown`)

// Discovery resolves the daemon's host:port.
type Discovery interface {
	Address() (string, error)
}

// CorePropsFile reads the address from a coreProps.json file on every call,
// so a restarted daemon on a new port is picked up.
type CorePropsFile string

func (p CorePropsFile) Address() (string, error) {
	if p == `` {
		return ``, errors.Errorf(`%w: no coreProps.json location on this platform`, ErrNoAddress)
	}
	data, err := os.ReadFile(string(p))
	if err != nil {
		if os.IsNotExist(err) {
			return ``, errors.Errorf(`coreProps.json not found at %s, is the SteelSeries engine running? %w`, string(p), err)
		}
		return ``, errors.Wrap(err, 0)
	}
	var props CoreProps
	if err := json.Unmarshal(data, &props); err != nil {
		return ``, errors.Errorf(`failed to parse %s: %w`, string(p), err)
	}
	if props.Address == `` {
		return ``, errors.Errorf(`%w: %s has no address field`, ErrNoAddress, string(p))
	}
	return props.Address, nil
}

// StaticAddress skips discovery.
type StaticAddress string

func (a StaticAddress) Address() (string, error) {
	if a == `` {
		return ``, ErrNoAddress
	}
	return string(a), nil
}
