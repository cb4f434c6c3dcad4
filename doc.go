// FILE: lixenwraith/libconfig/doc.go

// Package libconfig reads, edits and writes hierarchical configuration files in the
// libconfig format.
//
// A file is a group of named settings. Values are integers (32 and 64 bit, decimal or
// hex), floats, booleans, strings, groups, homogeneous arrays and heterogeneous lists:
//
//	# application settings
//	name = "demo";
//	server = {
//	  port = 8080;
//	  timeout = 2.5;
//	  hosts = [ "a.example", "b.example" ];
//	};
//	jobs = ( { id = 1L; }, "manual" );
//	@include "local.cfg"
//
// Quick Start:
//
//	type Config struct {
//	    Server struct {
//	        Port  int      `cfg:"port"`
//	        Hosts []string `cfg:"hosts"`
//	    } `cfg:"server"`
//	}
//
//	var cfg Config
//	err := libconfig.NewBuilder().
//	    WithDefaults(&defaults).
//	    WithFile("app.cfg").
//	    WithEnvPrefix("APP_").
//	    BuildAndScan(&cfg)
//
// Default Precedence (highest to lowest):
//  1. Command-line arguments (--server.port=9090)
//  2. Environment variables (APP_SERVER_PORT=9090)
//  3. Configuration file
//  4. Default values
//
// Handles:
// Document owns every setting. View and Setting are small value handles into it;
// a handle whose setting was removed, or whose document was reset or reparsed,
// reports ErrStaleReference instead of reading recycled storage.
//
//	d, _ := libconfig.Load("app.cfg")
//	port, err := d.Value("server.port").AsInt32()
//	hosts, _ := d.Lookup("server.hosts")
//	hosts.AddString("", "c.example")
//	d.WriteFile("app.cfg")
//
// Reads are strict: AsInt64 on an int32 setting fails with ErrTypeMismatch unless the
// document was created WithAutoConvert.
//
// Other encodings:
// Export and Import move a tree to and from TOML, JSON and YAML. Load picks the
// decoder from the file extension or content.
//
// Watching:
// Watch polls a file and delivers a freshly parsed Document with the list of changed
// paths on every content change, until its context is cancelled.
//
// A Document is not safe for concurrent mutation; callers serialize writes.
package libconfig
