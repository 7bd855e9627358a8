package main

// version is overridden at build time via -ldflags.
var version = "dev"
