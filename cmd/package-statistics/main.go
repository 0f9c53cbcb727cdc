package main

import (
	"os"

	"github.com/deploymenttheory/go-package-statistics/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		if hint := errorHint(err); hint != "" {
			logger.Errorf("%s", hint)
		}
		os.Exit(1)
	}
}
