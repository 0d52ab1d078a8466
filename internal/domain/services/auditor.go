package services

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/ochairo/cauldron/internal/domain/entities"
	"github.com/ochairo/cauldron/internal/domain/interfaces/gateways"
	"github.com/ochairo/cauldron/internal/logging"
)

// ArchiveWalker enumerates an archive's members into a classification report.
type ArchiveWalker interface {
	Walk(path string) (*entities.ArchiveReport, error)
}

var privilegedWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// Auditor inspects one archive file and drives the interactive human
// approval loop over its classified contents. It owns only transient
// per-archive state and holds nothing once the loop exits.
type Auditor struct {
	walker ArchiveWalker
	term   gateways.Terminal
	out    io.Writer
}

// NewAuditor creates an archive auditor writing prompts to out.
func NewAuditor(walker ArchiveWalker, term gateways.Terminal, out io.Writer) *Auditor {
	return &Auditor{
		walker: walker,
		term:   term,
		out:    out,
	}
}

// Audit walks the archive at path, classifies its members and blocks on the
// interactive review loop. It returns nil when the operator accepts, and
// entities.ErrOperatorAborted when the operator aborts; an abort must never
// let the caller silently continue.
func (a *Auditor) Audit(path string) error {
	report, err := a.walker.Walk(path)
	if err != nil {
		return err
	}
	logger := logging.GetLogger("auditor")
	logger.Debug().
		Str("archive", path).
		Int("files", len(report.AllFiles)).
		Int("privileged", len(report.PrivilegedFiles)).
		Msg("archive classified")
	return a.review(report)
}

// review is the approval state machine: it re-prompts on any unrecognized
// input and terminates only on accept or abort. Feeding a scripted line
// reader makes the loop testable without a terminal.
func (a *Auditor) review(report *entities.ArchiveReport) error {
	for {
		if !report.HasPrivilegedFiles() {
			fmt.Fprintf(a.out, "Archive %s has no privileged (setuid/setgid) files.\n", report.Path)
		}
		fmt.Fprint(a.out, "[e]=list executable files, [l]=list all files, [t]=run shell to inspect, ")
		if report.HasInstallScript() {
			fmt.Fprint(a.out, "[i]=show install script, ")
		}
		if report.HasPrivilegedFiles() {
			fmt.Fprint(a.out, privilegedWarning.Render("!!! [s]=list privileged files !!!")+", ")
		}
		fmt.Fprint(a.out, "[o]=ok, proceed, [q]=abort. ")

		input := a.term.ReadLine()
		fmt.Fprintln(a.out)
		switch {
		case input == "e":
			a.printList(report.ExecutableFiles)
		case input == "l":
			a.printList(report.AllFiles)
		case input == "t":
			fmt.Fprintln(a.out, "Exit the shell to return to the audit...")
			if err := a.term.RunShell(filepath.Dir(report.Path)); err != nil {
				fmt.Fprintf(a.out, "failed to run inspection shell: %v\n", err)
			}
		case input == "i" && report.HasInstallScript():
			fmt.Fprintln(a.out, report.InstallScript)
		case input == "s" && report.HasPrivilegedFiles():
			for _, path := range report.PrivilegedFiles {
				fmt.Fprintln(a.out, privilegedWarning.Render(path))
			}
		case input == "o":
			return nil
		case input == "q":
			return entities.ErrOperatorAborted
		}
	}
}

func (a *Auditor) printList(paths []string) {
	for _, path := range paths {
		fmt.Fprintln(a.out, path)
	}
}
