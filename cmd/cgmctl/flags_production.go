//go:build production

package main

import "github.com/ruslano69/cgm-backoffice/internal/infra"

func applyDevFlags(*infra.Config) error { return nil }
