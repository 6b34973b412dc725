package fileops

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/phravins/notepane/internal/notes"
	"github.com/phravins/notepane/internal/store"
	"github.com/phravins/notepane/pkg/utils"
)

var NotesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Note operations",
	Long:  "List, print, save and search notes without starting the editor",
}

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list [directory]",
	Short: "List the notes in a directory",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		listing, err := notes.Scan(utils.AbsPath(dir))
		if err != nil {
			utils.PrintError(fmt.Sprintf("Error listing notes: %v", err))
			os.Exit(1)
		}
		if err := writeListing(cmd.OutOrStdout(), listing, listFormat); err != nil {
			utils.PrintError(fmt.Sprintf("Error printing notes: %v", err))
			os.Exit(1)
		}
	},
}

var catCmd = &cobra.Command{
	Use:   "cat [file]",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := catNote(cmd.OutOrStdout(), store.NewOS(), args[0]); err != nil {
			utils.PrintError(fmt.Sprintf("Error reading note: %v", err))
			os.Exit(1)
		}
	},
}

var saveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Replace a note with standard input",
	Long:  "Reads standard input and writes it to the note atomically. The old content stays in place if anything fails.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := saveNote(cmd.InOrStdin(), store.NewOS(), args[0]); err != nil {
			utils.PrintError(fmt.Sprintf("Error saving note: %v", err))
			os.Exit(1)
		}
		utils.PrintSuccess(fmt.Sprintf("Saved %s", args[0]))
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [pattern] [directory]",
	Short: "Search for text in notes",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 1 {
			dir = args[1]
		}

		matches, err := searchNotes(store.NewOS(), args[0], utils.AbsPath(dir))
		if err != nil {
			utils.PrintError(fmt.Sprintf("Error searching: %v", err))
			os.Exit(1)
		}

		for _, match := range matches {
			fmt.Fprintln(cmd.OutOrStdout(), match)
		}
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "text", "output format: text, yaml or json")

	NotesCmd.AddCommand(listCmd)
	NotesCmd.AddCommand(catCmd)
	NotesCmd.AddCommand(saveCmd)
	NotesCmd.AddCommand(searchCmd)
}

func writeListing(w io.Writer, listing notes.Listing, format string) error {
	switch format {
	case "", "text":
		if len(listing) == 0 {
			_, err := fmt.Fprintln(w, "no notes")
			return err
		}
		t := table.New().
			Border(lipgloss.HiddenBorder()).
			Headers("TITLE", "DATE", "SIZE", "MODIFIED", "FILE")
		for _, d := range listing {
			t.Row(d.Title, d.Date, humanize.Bytes(uint64(d.Size)), humanize.Time(d.ModTime), d.Name)
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	case "yaml":
		out, err := yaml.Marshal(listing)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "json":
		out, err := json.MarshalIndent(listing, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}
}

func catNote(w io.Writer, s *store.Store, path string) error {
	text, err := s.Read(utils.AbsPath(path))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func saveNote(r io.Reader, s *store.Store, path string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return s.Write(utils.AbsPath(path), string(content))
}

// searchNotes returns "name:line: text" for every line of a note in
// directory that contains pattern. Notes that cannot be decoded are skipped.
func searchNotes(s *store.Store, pattern, directory string) ([]string, error) {
	listing, err := notes.Scan(directory)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, d := range listing {
		text, err := s.Read(d.Path)
		if err != nil {
			continue // Skip notes we can't read
		}
		for i, line := range strings.Split(text, "\n") {
			if strings.Contains(line, pattern) {
				matches = append(matches, fmt.Sprintf("%s:%d: %s", d.Name, i+1, strings.TrimSpace(line)))
			}
		}
	}
	return matches, nil
}
