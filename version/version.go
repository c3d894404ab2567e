package version

// BuildVersion is set at link time with -ldflags "-X .../version.BuildVersion=<tag>".
var BuildVersion = "dev"
