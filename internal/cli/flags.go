package cli

import "shoptest/internal/config"

// Flags holds command-line flags
type Flags struct {
	// Persistent flags
	ProjectPath string
	LogLevel    string
	LogFormat   string

	Processors        int
	Browsers          []string
	Docker            bool
	IntentionallyFail bool
	Headed            bool
	TestPath          string
	NameFilter        string
	TestCases         bool
	ShowPlan          bool
	FailFast          bool
	OpenFaills        bool
	Output            string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:        f.Processors,
		Browsers:          f.Browsers,
		Docker:            f.Docker,
		IntentionallyFail: f.IntentionallyFail,
		Headed:            f.Headed,
		TestPath:          f.TestPath,
		NameFilter:        f.NameFilter,
		TestCases:         f.TestCases,
		ShowPlan:          f.ShowPlan,
		FailFast:          f.FailFast,
		OpenFaills:        f.OpenFaills,
		Output:            f.Output,
	}
}
