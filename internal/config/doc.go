// Package config provides configuration structures and utilities for rivalscope.
// It defines runtime options (fetching, persistence, output, server), the
// optional .rivalscope YAML file, .env loading, and the static heuristic
// tables injected into the analysis components.
package config
