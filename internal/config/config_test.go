package config_test

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/config"
	"github.com/junsooki/keyscreen/internal/gamesense"
)

func TestDefaultsAreValid(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 128, c.Width)
	assert.Equal(t, 40, c.Height)
	assert.Equal(t, 10, c.Tail)
	assert.Equal(t, 100, c.BufferSize)
	assert.Equal(t, 10*time.Second, c.WPMWindow)
	assert.Equal(t, 50*time.Millisecond, c.FrameInterval)
	assert.Equal(t, 1000, c.MaxFrameValue)
	assert.True(t, c.Uppercase)
	assert.True(t, c.ShowWPM)
}

func TestBindFlags(t *testing.T) {
	c := config.Default()
	fs := pflag.NewFlagSet(`test`, pflag.ContinueOnError)
	c.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{
		`--address`, `127.0.0.1:5000`,
		`--font`, `/a.ttf`, `--font`, `/b.ttc`,
		`--uppercase=false`,
		`--frame-interval`, `100ms`,
		`--input`, `console`,
	}))
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{`/a.ttf`, `/b.ttc`}, c.Fonts)
	assert.False(t, c.Uppercase)
	assert.Equal(t, 100*time.Millisecond, c.FrameInterval)
	assert.Equal(t, gamesense.StaticAddress(`127.0.0.1:5000`), c.Discovery())

	gs := c.GameSense()
	assert.Equal(t, `EXAMPLE`, gs.Game)
	assert.Equal(t, 128, gs.Width)
}

func TestDiscoveryDefaultsToCoreProps(t *testing.T) {
	c := config.Default()
	c.CorePropsPath = `/tmp/coreProps.json`
	assert.Equal(t, gamesense.CorePropsFile(`/tmp/coreProps.json`), c.Discovery())
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*config.Config){
		`width`:        func(c *config.Config) { c.Width = 130 },
		`height`:       func(c *config.Config) { c.Height = 0 },
		`font size`:    func(c *config.Config) { c.FontSize = 0 },
		`tail`:         func(c *config.Config) { c.Tail = 0 },
		`interval`:     func(c *config.Config) { c.FrameInterval = 0 },
		`max value`:    func(c *config.Config) { c.MaxFrameValue = 0 },
		`input`:        func(c *config.Config) { c.Input = `joystick` },
		`window input`: func(c *config.Config) { c.Input = config.InputWindow },
	} {
		c := config.Default()
		mutate(c)
		assert.Error(t, c.Validate(), name)
	}

	c := config.Default()
	c.Width = 12
	assert.ErrorIs(t, c.Validate(), bitmap.ErrWidth)

	c = config.Default()
	c.Input = config.InputWindow
	c.Preview = true
	assert.NoError(t, c.Validate())
}
