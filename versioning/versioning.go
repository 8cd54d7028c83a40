package versioning

// Populated at build time through -ldflags.
var (
	Version   string
	Commit    string
	Branch    string
	BuildTime string
)
