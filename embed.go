package pressroom

import "embed"

// EmbeddedAssets contains static assets shipped with pressroom:
// site.css and admin.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
