package prog

import "flag"

// FlagSet wraps a flag.FlagSet. Programs that share a flag obtain it through
// one of the methods, so that it is only registered once.
type FlagSet struct {
	*flag.FlagSet
	json *bool
	db   *string
}

// JSON returns a pointer to the value of the -json flag.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"show the output from -buildinfo, -version or -stats in JSON")
		fs.json = &json
	}
	return fs.json
}

// DB returns a pointer to the value of the -db flag.
func (fs *FlagSet) DB() *string {
	if fs.db == nil {
		var db string
		fs.StringVar(&db, "db", "",
			"path to the database for history and statistics; empty disables it")
		fs.db = &db
	}
	return fs.db
}
