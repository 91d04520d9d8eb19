package version

// Version is the semantic version of the mnode binary.
var Version = "0.1.0"
