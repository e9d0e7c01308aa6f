// Package configs ships the default files the service falls back to when no
// override is configured.
package configs

import _ "embed"

//go:embed recommendations.yaml
var DefaultRecommendations []byte
