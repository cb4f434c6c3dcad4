// FILE: lixenwraith/libconfig/builder_test.go
package libconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type builderConfig struct {
	Server struct {
		Host string `cfg:"host"`
		Port int    `cfg:"port"`
	} `cfg:"server"`
	Debug bool `cfg:"debug"`
}

func builderDefaults() *builderConfig {
	c := &builderConfig{}
	c.Server.Host = "localhost"
	c.Server.Port = 8080
	return c
}

// TestBuilder tests the builder pattern
func TestBuilder(t *testing.T) {
	t.Run("DefaultsOnly", func(t *testing.T) {
		d, err := NewBuilder().
			WithDefaults(builderDefaults()).
			WithArgs(nil).
			Build()
		require.NoError(t, err)

		assert.Equal(t, "localhost", d.Value("server.host").AsStringOr(""))
		assert.Equal(t, int32(8080), d.Value("server.port").AsInt32Or(0))
		assert.False(t, d.Value("debug").AsBoolOr(true))
	})

	t.Run("FileOverDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.cfg")
		writeFile(t, path, "server = { host = \"filehost\"; extra = 1; };\n")

		d, err := NewBuilder().
			WithDefaults(builderDefaults()).
			WithFile(path).
			WithArgs(nil).
			Build()
		require.NoError(t, err)

		assert.Equal(t, "filehost", d.Value("server.host").AsStringOr(""))
		assert.Equal(t, int32(8080), d.Value("server.port").AsInt32Or(0), "filled from defaults")
		assert.Equal(t, int32(1), d.Value("server.extra").AsInt32Or(0))
		assert.Equal(t, path, d.File())

		// file members keep their order; defaults are appended after them
		var names []string
		for name := range d.Value("server").Members() {
			names = append(names, name)
		}
		assert.Equal(t, []string{"host", "extra", "port"}, names)
	})

	t.Run("MissingFileIsNotFatal", func(t *testing.T) {
		d, err := NewBuilder().
			WithDefaults(builderDefaults()).
			WithFile(filepath.Join(t.TempDir(), "absent.cfg")).
			WithArgs(nil).
			Build()
		assert.ErrorIs(t, err, ErrFileNotFound)
		require.NotNil(t, d)
		assert.Equal(t, "localhost", d.Value("server.host").AsStringOr(""))
	})

	t.Run("InvalidFileIsFatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.cfg")
		writeFile(t, path, "server = {")

		d, err := NewBuilder().WithFile(path).WithArgs(nil).Build()
		assert.ErrorIs(t, err, ErrParse)
		assert.Nil(t, d)
	})

	t.Run("Precedence", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.cfg")
		writeFile(t, path, "server = { host = \"filehost\"; port = 1000; };\n")
		t.Setenv("PREC_SERVER_HOST", "envhost")
		t.Setenv("PREC_SERVER_PORT", "2000")

		d, err := NewBuilder().
			WithDefaults(builderDefaults()).
			WithFile(path).
			WithEnvPrefix("PREC_").
			WithArgs([]string{"--server.port=3000"}).
			Build()
		require.NoError(t, err)

		assert.Equal(t, "envhost", d.Value("server.host").AsStringOr(""), "env over file")
		assert.Equal(t, int32(3000), d.Value("server.port").AsInt32Or(0), "cli over env")
	})

	t.Run("StringSourceAndOptions", func(t *testing.T) {
		d, err := NewBuilder().
			WithString("n = [ 1, 2.5 ];").
			WithAutoConvert(true).
			WithTabWidth(4).
			WithDefaultFormat(FormatHex).
			WithStyle(DefaultStyle).
			WithIncludeDir("/nonexistent").
			WithArgs(nil).
			Build()
		require.NoError(t, err)

		assert.Equal(t, int32(2), d.Value("n.1").AsInt32Or(0))
		opts := d.Options()
		assert.Equal(t, 4, opts.TabWidth)
		assert.Equal(t, FormatHex, opts.DefaultFormat)
		assert.Equal(t, "/nonexistent", opts.IncludeDir)
		assert.Equal(t, "n = [ 0x1, 0x2 ];\n", d.Serialize())
	})

	t.Run("ForeignFormat", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.toml")
		writeFile(t, path, "[server]\nport = 9999\n")

		d, err := NewBuilder().
			WithDefaults(builderDefaults()).
			WithFile(path).
			WithArgs(nil).
			Build()
		require.NoError(t, err)
		assert.Equal(t, int32(9999), d.Value("server.port").AsInt32Or(0))
		assert.Equal(t, "localhost", d.Value("server.host").AsStringOr(""))
	})

	t.Run("Required", func(t *testing.T) {
		_, err := NewBuilder().
			WithString("a = 1;").
			WithRequired("a", "b.c", "d").
			WithArgs(nil).
			Build()
		require.ErrorIs(t, err, ErrElementNotExists)
		assert.Contains(t, err.Error(), "b.c, d")
	})

	t.Run("Validators", func(t *testing.T) {
		var order []int
		errTooLow := errors.New("port too low")

		_, err := NewBuilder().
			WithDefaults(builderDefaults()).
			WithArgs([]string{"--server.port=80"}).
			WithValidator(func(d *Document) error {
				order = append(order, 1)
				return nil
			}).
			WithValidator(nil).
			WithValidator(func(d *Document) error {
				order = append(order, 2)
				if d.Value("server.port").AsInt32Or(0) < 1024 {
					return errTooLow
				}
				return nil
			}).
			Build()

		assert.ErrorIs(t, err, errTooLow)
		assert.Equal(t, []int{1, 2}, order)
	})
}

func TestBuilderScan(t *testing.T) {
	t.Run("BuildAndScan", func(t *testing.T) {
		var cfg builderConfig
		err := NewBuilder().
			WithDefaults(builderDefaults()).
			WithString("debug = true;").
			WithArgs([]string{"--server.host", "scanned"}).
			BuildAndScan(&cfg)
		require.NoError(t, err)

		assert.True(t, cfg.Debug)
		assert.Equal(t, "scanned", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
	})

	t.Run("MissingFileStillScans", func(t *testing.T) {
		var cfg builderConfig
		err := NewBuilder().
			WithDefaults(builderDefaults()).
			WithFile(filepath.Join(t.TempDir(), "none.cfg")).
			WithArgs(nil).
			BuildAndScan(&cfg)
		assert.ErrorIs(t, err, ErrFileNotFound)
		assert.Equal(t, 8080, cfg.Server.Port)
	})

	t.Run("MustBuild", func(t *testing.T) {
		assert.NotPanics(t, func() {
			d := NewBuilder().WithFile(filepath.Join(t.TempDir(), "none.cfg")).WithArgs(nil).MustBuild()
			assert.NotNil(t, d)
		})
		assert.Panics(t, func() {
			NewBuilder().WithString("broken").WithArgs(nil).MustBuild()
		})
	})
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	found := filepath.Join(dir, "myapp.conf")
	writeFile(t, found, "a = 1;\n")

	opts := DefaultDiscoveryOptions("my-app")
	assert.Equal(t, "MY_APP_CONFIG", opts.EnvVar)

	opts = DefaultDiscoveryOptions("myapp")
	opts.UseXDG = false
	opts.UseCurrentDir = false
	opts.Paths = []string{filepath.Join(dir, "empty"), dir}

	t.Run("SearchPaths", func(t *testing.T) {
		path, ok := Discover(opts, nil)
		require.True(t, ok)
		assert.Equal(t, found, path)
	})

	t.Run("EnvVar", func(t *testing.T) {
		t.Setenv("MYAPP_CONFIG", "/from/env.cfg")
		path, ok := Discover(opts, nil)
		require.True(t, ok)
		assert.Equal(t, "/from/env.cfg", path)

		path, _ = Discover(opts, []string{"--config=/from/cli.cfg"})
		assert.Equal(t, "/from/cli.cfg", path, "flag beats env")
		path, _ = Discover(opts, []string{"--config", "/from/cli2.cfg"})
		assert.Equal(t, "/from/cli2.cfg", path)
	})

	t.Run("NothingFound", func(t *testing.T) {
		none := opts
		none.Paths = []string{filepath.Join(dir, "empty")}
		_, ok := Discover(none, nil)
		assert.False(t, ok)
	})

	t.Run("XDG", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		t.Setenv("XDG_CONFIG_DIRS", "")
		writeFile(t, filepath.Join(xdg, "xdgapp", "xdgapp.cfg"), "from = \"xdg\";\n")

		xopts := DefaultDiscoveryOptions("xdgapp")
		xopts.UseCurrentDir = false
		d, err := NewBuilder().WithArgs(nil).WithFileDiscovery(xopts).Build()
		require.NoError(t, err)
		assert.Equal(t, "xdg", d.Value("from").AsStringOr(""))
		assert.Contains(t, getXDGConfigPaths("xdgapp"), filepath.Join("/etc", "xdgapp"))
	})
}

func ExampleBuilder() {
	d, err := NewBuilder().
		WithString(`server = { port = 8080; };`).
		WithArgs([]string{"--server.port=9090"}).
		Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(d.Value("server.port").AsInt32Or(0))
	// Output: 9090
}
