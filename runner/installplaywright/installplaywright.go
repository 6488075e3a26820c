package installplaywright

import (
	"context"

	"github.com/kremlit/leadharvest/internal/browser"
	"github.com/kremlit/leadharvest/runner"
)

type installRunner struct{}

// New returns a runner that installs the playwright browser runtime.
func New(_ *runner.Config) (runner.Runner, error) {
	return &installRunner{}, nil
}

func (i *installRunner) Run(context.Context) error {
	return browser.Install()
}

func (i *installRunner) Close(context.Context) error {
	return nil
}
