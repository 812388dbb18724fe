package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"shoptest/internal/config"
	"shoptest/internal/discovery"
	"shoptest/internal/domain"
	"shoptest/internal/parser"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	parser *discovery.Parser
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config, p *discovery.Parser) *Formatter {
	return &Formatter{
		config: cfg,
		parser: p,
		out:    os.Stdout,
	}
}

// SetOutput redirects the formatter, e.g. into a buffer in tests
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *Formatter) row(label string, value string, paint func(format string, a ...interface{}) string) {
	fmt.Fprintf(f.out, "│ %-31s │ %s │\n", label, paint("%-27s", value))
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
}

// PrintMetaStats displays the meta statistics of a run and a tree of its
// failures
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                    Test Execution Statistics                  ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Browsers", strings.Join(meta.Browsers, ", "), color.WhiteString)
	f.row("Total Test Cases", fmt.Sprint(meta.TotalTestCases), color.WhiteString)
	f.row("Passed Test Cases", fmt.Sprint(meta.PassedTestCases), color.GreenString)
	f.row("Failed Test Cases", fmt.Sprint(meta.FailedTestCases), color.RedString)
	f.row("Other Test Cases", fmt.Sprint(meta.OtherTestCases), color.YellowString)
	f.row("Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), color.WhiteString)
	f.row("Workers", fmt.Sprint(meta.Workers), color.WhiteString)
	fmt.Fprintf(f.out, "│ %-31s │ %s │\n", "Timestamp", color.WhiteString("%-27s", meta.Timestamp))
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedTestCases == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ All test cases passed!"))
		return
	}
	fmt.Fprintln(f.out, color.RedString("✗ %d test case(s) failed", meta.FailedTestCases))
	fmt.Fprintln(f.out)

	var failed []domain.StoredRecord
	for _, i := range output.Failures() {
		failed = append(failed, output.Details[i])
	}
	f.printFailedTestsTree(failed)
}

// PrintWorkerFailures shows go test output for jobs whose failures never
// reached a run log, such as a suite that does not compile.
func (f *Formatter) PrintWorkerFailures(results []domain.WorkerResult, p parser.Parser) {
	for _, result := range results {
		if result.Success {
			continue
		}
		failures := p.ParseFailures(result)
		if len(failures) == 0 {
			continue
		}
		fmt.Fprintln(f.out, color.YellowString("%s:", result.Job))
		for _, failure := range failures {
			fmt.Fprintln(f.out, color.RedString("  ✗ %s", failure.Name))
			for _, line := range failure.Lines {
				fmt.Fprintf(f.out, "      %s\n", line)
			}
		}
	}
}

// TreeNode represents a node in the failure tree
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.StoredRecord
	IsLeaf   bool
}

// printFailedTestsTree prints failures grouped by browser, then run
func (f *Formatter) printFailedTestsTree(failures []domain.StoredRecord) {
	if len(failures) == 0 {
		return
	}

	groups := make(map[string][]domain.StoredRecord)
	for _, failure := range failures {
		key := failure.Browser + "/" + failure.Metadata.RunID
		groups[key] = append(groups[key], failure)
	}

	root := &TreeNode{Children: make(map[string]*TreeNode)}
	for key, groupFailures := range groups {
		parts := strings.Split(key, "/")
		current := root
		for i, part := range parts {
			if part == "" {
				part = "unknown"
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsLeaf:   i == len(parts)-1,
				}
			}
			current = current.Children[part]
			if i == len(parts)-1 {
				current.Failures = append(current.Failures, groupFailures...)
			}
		}
	}

	f.printTreeNode(root, "", true)
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string, isRoot bool) {
	var keys []string
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		isLastChild := i == len(keys)-1

		var connector string
		if isRoot {
			connector = ""
		} else if isLastChild {
			connector = prefix + "└── "
		} else {
			connector = prefix + "├── "
		}

		if child.IsLeaf {
			fmt.Fprintln(f.out, color.YellowString("%s%s", connector, child.Name))
		} else {
			fmt.Fprintln(f.out, color.CyanString("%s%s", connector, child.Name))
		}

		var childPrefix string
		if isRoot {
			childPrefix = ""
		} else if isLastChild {
			childPrefix = prefix + "    "
		} else {
			childPrefix = prefix + "│   "
		}

		if child.IsLeaf {
			for j, failure := range child.Failures {
				branch := "├── "
				if j == len(child.Failures)-1 {
					branch = "└── "
				}
				msg := ""
				if failure.Error != nil {
					msg = color.WhiteString(": %s", firstLine(failure.Error.Message))
				}
				fmt.Fprintln(f.out, color.RedString("%s%s%s", childPrefix, branch, failure.TestID)+msg)
			}
		}

		f.printTreeNode(child, childPrefix, false)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// CountTestCases returns the total number of test functions across the given test files.
func (f *Formatter) CountTestCases(files []string) (int, error) {
	var total int
	for _, file := range files {
		cases, err := f.parser.FindTestCases(file)
		if err != nil {
			return 0, err
		}
		total += len(cases)
	}
	return total, nil
}

// PrintTestList prints the suite files, optionally with their test functions.
func (f *Formatter) PrintTestList(tests []domain.SuiteTest, showTestCases bool) {
	byFile := make(map[string][]string)
	var files []string
	for _, t := range tests {
		if _, ok := byFile[t.FilePath]; !ok {
			files = append(files, t.FilePath)
		}
		byFile[t.FilePath] = append(byFile[t.FilePath], t.Name)
	}
	sort.Strings(files)

	if showTestCases {
		fmt.Fprintln(f.out, color.GreenString("Found %d test(s) in %d file(s):\n", len(tests), len(files)))
	} else {
		fmt.Fprintln(f.out, color.GreenString("Found %d test file(s):\n", len(files)))
	}

	for i, file := range files {
		relPath, err := filepath.Rel(f.config.ProjectPath, file)
		if err != nil {
			relPath = file
		}

		isLastFile := i == len(files)-1
		if isLastFile {
			fmt.Fprintln(f.out, color.CyanString("└── %s", relPath))
		} else {
			fmt.Fprintln(f.out, color.CyanString("├── %s", relPath))
		}
		if !showTestCases {
			continue
		}

		names := byFile[file]
		for j, name := range names {
			isLastCase := j == len(names)-1
			var prefix string
			switch {
			case isLastFile && isLastCase:
				prefix = "    └── "
			case isLastFile:
				prefix = "    ├── "
			case isLastCase:
				prefix = "│   └── "
			default:
				prefix = "│   ├── "
			}
			fmt.Fprintf(f.out, "%s%s\n", prefix, color.YellowString(name))
		}

		if !isLastFile {
			fmt.Fprintln(f.out)
		}
	}
}

// PrintJobPlan prints one line per job with the tests it runs.
func (f *Formatter) PrintJobPlan(jobs []domain.Job) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.GreenString("Planned %d job(s):", len(jobs)))
	for _, job := range jobs {
		names := make([]string, len(job.Tests))
		for i, t := range job.Tests {
			names[i] = t.Name
		}
		fmt.Fprintf(f.out, "  %s %s\n",
			color.CyanString("%-12s", job.ID),
			strings.Join(names, ", "))
	}
}
