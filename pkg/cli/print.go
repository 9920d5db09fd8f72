package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"

	"github.com/binup-dev/binup/pkg/domain/model"
	"github.com/binup-dev/binup/pkg/infra/cargo"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	blue   = color.New(color.FgBlue)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// startPhase prints the enter marker of a named phase and returns the matching
// exit call.
func startPhase(n int, verb, what string) func(ok bool) {
	fmt.Printf("%s %s %s... ", bold.Sprintf("[%d/3]", n), verb, green.Sprint(what))
	return func(ok bool) {
		if ok {
			fmt.Println("done")
		} else {
			fmt.Println(red.Sprint("failed"))
		}
	}
}

func printRegistryUpdates(updates *model.PackageMap[model.UpdateInfo[model.RegistryInfo]]) {
	if updates.Len() == 0 {
		fmt.Printf("no %s crate updates\n", green.Sprint("registry"))
		return
	}

	fmt.Printf("<<< Updates from the %s >>>\n\n", green.Sprint("registry"))

	rows := make([][3]string, 0, updates.Len())
	nameW, currentW := len("Name"), len("Current")
	for _, e := range updates.Entries() {
		row := [3]string{e.Package.Name, e.Package.Version.String(), e.Value.Extra.Version.String()}
		rows = append(rows, row)
		nameW = max(nameW, len(row[0]))
		currentW = max(currentW, len(row[1]))
	}

	fmt.Printf("%-*s  %-*s   %s\n", nameW, "Name", currentW, "Current", "Latest")
	fmt.Println(strings.Repeat("─", nameW+currentW+12))
	for i, e := range updates.Entries() {
		row := rows[i]
		// Pad before coloring; ANSI escapes would throw off %-*s widths.
		fmt.Printf("%s  %s ➞ %s\n",
			green.Sprint(row[0])+strings.Repeat(" ", nameW-len(row[0])),
			row[1]+strings.Repeat(" ", currentW-len(row[1])),
			colorizeVersion(e.Package.Version, e.Value.Extra.Version))
	}
	fmt.Println()
}

// colorizeVersion colors the latest version by how far it moved from current:
// yellow for a major bump, green for minor, blue for patch or less.
func colorizeVersion(current, latest *semver.Version) string {
	switch {
	case current.Major() != latest.Major():
		return yellow.Sprint(latest.String())
	case current.Minor() != latest.Minor():
		return green.Sprint(latest.String())
	default:
		return blue.Sprint(latest.String())
	}
}

func printGitUpdates(updates *model.PackageMap[model.UpdateInfo[model.GitInfo]], enabled bool) {
	if !enabled {
		fmt.Printf("%s crate updates %s\n", green.Sprint("git"), yellow.Sprint("disabled"))
		return
	}
	if updates.Len() == 0 {
		fmt.Printf("no %s crate updates\n", green.Sprint("git"))
		return
	}

	fmt.Printf("<<< Updates from %s >>>\n\n", green.Sprint("git"))
	for _, e := range updates.Entries() {
		info := e.Value.Extra
		fmt.Printf("%s (%s) %s..%s  %s commits, %d files, %s %s\n",
			green.Sprint(e.Package.Name),
			info.Type,
			shortCommit(info.OldCommit),
			shortCommit(info.NewCommit),
			blue.Sprint(info.Changes.Commits),
			info.Changes.FilesChanged,
			green.Sprintf("+%d", info.Changes.Insertions),
			red.Sprintf("-%d", info.Changes.Deletions))
	}
	fmt.Println()
}

func printPathUpdates(updates *model.PackageMap[model.UpdateInfo[model.PathInfo]], enabled bool) {
	if !enabled {
		fmt.Printf("%s crate updates %s\n", green.Sprint("local path"), yellow.Sprint("disabled"))
		return
	}
	if updates.Len() == 0 {
		fmt.Printf("no %s crates\n", green.Sprint("local path"))
		return
	}

	fmt.Printf("<<< Updates from %s >>>\n\n", green.Sprint("local paths"))
	for _, e := range updates.Entries() {
		fmt.Println(e.Package.Name)
	}
	fmt.Println()
}

func printFailures(failures []model.Failure) {
	if len(failures) == 0 {
		return
	}

	fmt.Printf("\n%d package(s) %s to check:\n", len(failures), red.Sprint("failed"))
	for _, f := range failures {
		fmt.Printf("  %s: %v\n", green.Sprint(f.Package.Name), f.Err)
	}
}

func installRegistryUpdates(ctx context.Context, installer *cargo.Installer, updates *model.Updates) {
	count := updates.Registry.Len()
	if count == 0 {
		return
	}

	fmt.Printf("start installing %s %s updates\n\n",
		blue.Sprint(count), green.Sprint("registry"))

	for i, e := range updates.Registry.Entries() {
		fmt.Printf("%s updating %s from %s to %s\n",
			bold.Sprintf("[%d/%d]", i+1, count),
			green.Sprint(e.Package.Name),
			blue.Sprint(e.Package.Version),
			blue.Sprint(e.Value.Extra.Version))

		if err := installer.Install(ctx, e.Package.Name, e.Value.Extra.Version, e.Value.Install); err != nil {
			ctxlog.From(ctx).Error("install failed", "package", e.Package.Name, "error", err)
			fmt.Printf("\ninstalling %s %s\n", green.Sprint(e.Package.Name), red.Sprint("failed"))
		}
	}
}

// printManualHints lists the git and path updates that are not installed
// automatically, with the command to run.
func printManualHints(updates *model.Updates) {
	for _, e := range updates.Git.Entries() {
		fmt.Printf("%s: run `cargo install --git %s %s` to update\n",
			green.Sprint(e.Package.Name), e.Package.SourceID.URL, e.Package.Name)
	}
	for _, e := range updates.Path.Entries() {
		fmt.Printf("%s: run `cargo install --path %s --force` to refresh\n",
			green.Sprint(e.Package.Name), e.Package.SourceID.URL.Path)
	}
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
