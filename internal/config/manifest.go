package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/JonMunkholm/evalnorm/internal/evaluation"
)

// DefaultInputSuffix follows the registrar's file naming, e.g.
// fa10_course_evaluation.xlsx.
const DefaultInputSuffix = "_course_evaluation.xlsx"

// Manifest describes a batch run: which term files to clean, with which
// era, into which output.
//
//	output = "combined_data.csv"
//	input_dir = "raw"
//
//	[[group]]
//	era = "fa05"
//	terms = ["fa05"]
type Manifest struct {
	Output      string  `toml:"output"`
	Delimiter   string  `toml:"delimiter"`
	Append      bool    `toml:"append"`
	InputDir    string  `toml:"input_dir"`
	InputSuffix string  `toml:"input_suffix"`
	Sheet       string  `toml:"sheet"`
	SQLitePath  string  `toml:"sqlite"`
	Groups      []Group `toml:"group"`
}

// Group is a list of terms sharing one era.
type Group struct {
	Era   string   `toml:"era"`
	Terms []string `toml:"terms"`
}

// Job is one input file of a batch.
type Job struct {
	Term string
	Era  evaluation.Era
	Path string
}

// DefaultManifest covers every term the registrar published, fa05 through
// su17, in era order.
func DefaultManifest() Manifest {
	var modern []string
	for y := 7; y <= 16; y++ {
		modern = append(modern, fmt.Sprintf("fa%02d", y))
	}
	for y := 7; y <= 16; y++ {
		modern = append(modern, fmt.Sprintf("sp%02d", y))
	}
	for y := 14; y <= 17; y++ {
		modern = append(modern, fmt.Sprintf("su%02d", y))
	}

	return Manifest{
		Output:      "combined_data.csv",
		Delimiter:   ",",
		InputDir:    ".",
		InputSuffix: DefaultInputSuffix,
		Groups: []Group{
			{Era: string(evaluation.EraFall05), Terms: []string{"fa05"}},
			{Era: string(evaluation.EraSpring05), Terms: []string{"sp05"}},
			{Era: string(evaluation.Era06), Terms: []string{"fa06", "sp06"}},
			{Era: string(evaluation.EraModern), Terms: modern},
		},
	}
}

// LoadManifest reads a TOML manifest. Unset fields take the defaults of
// DefaultManifest, except groups: a manifest without groups is an error.
func LoadManifest(path string) (Manifest, error) {
	if path == "" {
		return Manifest{}, fmt.Errorf("manifest path is empty")
	}

	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Manifest{}, fmt.Errorf("manifest %s: unknown key %q", path, undecoded[0].String())
	}

	def := DefaultManifest()
	if m.Output == "" {
		m.Output = def.Output
	}
	if m.Delimiter == "" {
		m.Delimiter = def.Delimiter
	}
	if m.InputSuffix == "" {
		m.InputSuffix = def.InputSuffix
	}
	if m.InputDir == "" {
		m.InputDir = filepath.Dir(path)
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks eras, terms and the delimiter.
func (m Manifest) Validate() error {
	if m.Output == "" {
		return fmt.Errorf("output is empty")
	}
	if _, err := ParseDelimiter(m.Delimiter); err != nil {
		return err
	}
	if len(m.Groups) == 0 {
		return fmt.Errorf("no groups")
	}
	for i, g := range m.Groups {
		if _, err := evaluation.ParseEra(g.Era); err != nil {
			return fmt.Errorf("group %d: %w", i+1, err)
		}
		if len(g.Terms) == 0 {
			return fmt.Errorf("group %d (%s): no terms", i+1, g.Era)
		}
	}
	return nil
}

// Jobs expands the manifest into input files in run order.
func (m Manifest) Jobs() ([]Job, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var jobs []Job
	for _, g := range m.Groups {
		era, _ := evaluation.ParseEra(g.Era)
		for _, term := range g.Terms {
			jobs = append(jobs, Job{
				Term: term,
				Era:  era,
				Path: filepath.Join(m.InputDir, term+m.InputSuffix),
			})
		}
	}
	return jobs, nil
}

// WriteManifest writes m as TOML, for `evalnorm batch --init`.
func WriteManifest(path string, m Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("encode manifest: %w", err)
	}
	return f.Close()
}
