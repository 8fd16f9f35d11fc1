package input

import (
	"context"
	"log/slog"
	"sync"

	evdev "github.com/holoplot/go-evdev"

	"github.com/junsooki/keyscreen/internal/errors"
)

// evdev key values
const (
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

type evdevSource struct {
	logger *slog.Logger
}

// NewSystemSource listens to every keyboard under /dev/input. Reading the
// devices usually requires membership in the input group.
func NewSystemSource(logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &evdevSource{logger: logger}
}

func (s *evdevSource) Run(ctx context.Context, handle func(KeyEvent)) error {
	kbds, err := findKeyboards()
	if err != nil {
		return err
	}
	if len(kbds) == 0 {
		return errors.New(`no readable keyboard found under /dev/input`)
	}
	var wg sync.WaitGroup
	for _, dev := range kbds {
		name, _ := dev.Name()
		s.logger.Debug(`listening to keyboard`, `device`, name, `path`, dev.Path())
		wg.Add(1)
		go func(dev *evdev.InputDevice) {
			defer wg.Done()
			readKeys(dev, handle)
		}(dev)
	}
	<-ctx.Done()
	for _, dev := range kbds {
		_ = dev.Close()
	}
	wg.Wait()
	return nil
}

func findKeyboards() ([]*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, errors.WrapPrefix(err, `list input devices`, 0)
	}
	var kbds []*evdev.InputDevice
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		var hasA, hasEnter bool
		for _, c := range dev.CapableEvents(evdev.EV_KEY) {
			switch c {
			case evdev.KEY_A:
				hasA = true
			case evdev.KEY_ENTER:
				hasEnter = true
			}
		}
		if hasA && hasEnter {
			kbds = append(kbds, dev)
		} else {
			_ = dev.Close()
		}
	}
	return kbds, nil
}

// readKeys returns once the device is closed.
func readKeys(dev *evdev.InputDevice, handle func(KeyEvent)) {
	var st keyState
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			return
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		if name, ok := st.apply(ev.Code, ev.Value); ok {
			handle(KeyEvent{Name: name})
		}
	}
}
