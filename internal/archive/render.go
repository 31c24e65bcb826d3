package archive

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Renderer serializes an archive report to bytes.
type Renderer interface {
	Render(report *Report) ([]byte, error)
}

// entryView is the JSON shape of one entry. Modes render as strings and
// checksums as hex so the output reads like familiar zip tooling.
type entryView struct {
	Name       string `json:"name"`
	Size       uint64 `json:"size"`
	Compressed uint64 `json:"compressed"`
	Mode       string `json:"mode"`
	Modified   string `json:"modified"`
	IsDir      bool   `json:"is_dir"`
	CRC32      string `json:"crc32"`
}

type reportView struct {
	Path            string      `json:"path"`
	Files           int         `json:"files"`
	Dirs            int         `json:"dirs"`
	TotalSize       uint64      `json:"total_size"`
	TotalCompressed uint64      `json:"total_compressed"`
	Ratio           float64     `json:"ratio"`
	Entries         []entryView `json:"entries"`
}

// JSONRenderer renders a report as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(report *Report) ([]byte, error) {
	view := reportView{
		Path:            report.Summary.Path,
		Files:           report.Summary.Files,
		Dirs:            report.Summary.Dirs,
		TotalSize:       report.Summary.TotalSize,
		TotalCompressed: report.Summary.TotalCompressed,
		Ratio:           report.Summary.Ratio(),
		Entries:         make([]entryView, 0, len(report.Entries)),
	}
	for _, e := range report.Entries {
		view.Entries = append(view.Entries, entryView{
			Name:       e.Name,
			Size:       e.Size,
			Compressed: e.Compressed,
			Mode:       e.Mode.String(),
			Modified:   e.Modified.UTC().Format(time.RFC3339),
			IsDir:      e.IsDir,
			CRC32:      fmt.Sprintf("%08x", e.CRC32),
		})
	}
	return json.MarshalIndent(view, "", "  ")
}

// TextRenderer renders a report as an aligned listing in the spirit of
// `unzip -l`, with a mode column wheel auditing actually needs.
type TextRenderer struct{}

func (r *TextRenderer) Render(report *Report) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Archive: %s\n", report.Summary.Path)
	fmt.Fprintf(&sb, "%d files, %d dirs, %d bytes (%d compressed, %.1f%%)\n\n",
		report.Summary.Files,
		report.Summary.Dirs,
		report.Summary.TotalSize,
		report.Summary.TotalCompressed,
		report.Summary.Ratio()*100,
	)

	sb.WriteString("Mode        Size       CRC32     Modified              Name\n")
	sb.WriteString("----        ----       -----     --------              ----\n")
	for _, e := range report.Entries {
		fmt.Fprintf(&sb, "%-11s %-10d %08x  %-20s  %s\n",
			e.Mode.String(),
			e.Size,
			e.CRC32,
			e.Modified.UTC().Format("2006-01-02 15:04:05"),
			e.Name,
		)
	}
	return []byte(sb.String()), nil
}
