// Package pipeline runs named sequences of table operations described in
// YAML. Each step reads the output of an earlier step, applies one engine
// operation and stores its result in a Cache under the step's name.
//
//	name: indirect
//	steps:
//	  - name: flights
//	    load: flights.csv
//	  - name: origin
//	    from: flights
//	    where: ["city1 == Chicago"]
//	  - groupby: [Year, quarter]
//	    agg: ["fare=mean"]
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

// Extension of pipeline files.
const Extension = ".yaml"

// ErrInvalidStep reports a step that names no operation, several operations,
// or an operation with missing arguments.
var ErrInvalidStep = errors.New("invalid step")

// Spec is a pipeline document.
type Spec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`

	// Not serialized: directory relative load paths resolve against.
	baseDir string `yaml:"-"`
}

// Step is one operation. Exactly one of the operation fields must be set.
type Step struct {
	Name string `yaml:"name,omitempty"`
	// From names the input step; empty means the previous step.
	From string `yaml:"from,omitempty"`

	Load      string `yaml:"load,omitempty"`
	Delimiter string `yaml:"delimiter,omitempty"`
	Sheet     string `yaml:"sheet,omitempty"`

	Select      []string          `yaml:"select,omitempty"`
	Where       []string          `yaml:"where,omitempty"`
	DropMissing *[]string         `yaml:"drop_missing,omitempty"`
	GroupBy     []string          `yaml:"groupby,omitempty"`
	Agg         []string          `yaml:"agg,omitempty"`
	Join        string            `yaml:"join,omitempty"`
	On          []string          `yaml:"on,omitempty"`
	How         string            `yaml:"how,omitempty"`
	Sort        []string          `yaml:"sort,omitempty"`
	Head        *int              `yaml:"head,omitempty"`
	Derive      *Derive           `yaml:"derive,omitempty"`
	Rename      map[string]string `yaml:"rename,omitempty"`
}

// Derive adds a text column built by joining other columns with Sep.
type Derive struct {
	Column string   `yaml:"column"`
	Concat []string `yaml:"concat"`
	Sep    string   `yaml:"sep,omitempty"`
}

// Op returns the name of the step's operation.
func (s Step) Op() (string, error) {
	var ops []string
	if s.Load != "" {
		ops = append(ops, "load")
	}
	if s.Select != nil {
		ops = append(ops, "select")
	}
	if s.Where != nil {
		ops = append(ops, "where")
	}
	if s.DropMissing != nil {
		ops = append(ops, "drop_missing")
	}
	if s.GroupBy != nil {
		ops = append(ops, "groupby")
	}
	if s.Join != "" {
		ops = append(ops, "join")
	}
	if s.Sort != nil {
		ops = append(ops, "sort")
	}
	if s.Head != nil {
		ops = append(ops, "head")
	}
	if s.Derive != nil {
		ops = append(ops, "derive")
	}
	if s.Rename != nil {
		ops = append(ops, "rename")
	}
	switch len(ops) {
	case 0:
		return "", fmt.Errorf("%w: no operation", ErrInvalidStep)
	case 1:
	default:
		return "", fmt.Errorf("%w: several operations (%s)", ErrInvalidStep, strings.Join(ops, ", "))
	}
	op := ops[0]
	switch {
	case op == "groupby" && len(s.Agg) == 0:
		return "", fmt.Errorf("%w: groupby needs agg", ErrInvalidStep)
	case op != "groupby" && len(s.Agg) > 0:
		return "", fmt.Errorf("%w: agg only applies to groupby", ErrInvalidStep)
	case op == "join" && len(s.On) == 0:
		return "", fmt.Errorf("%w: join needs on", ErrInvalidStep)
	case op == "derive" && (s.Derive.Column == "" || len(s.Derive.Concat) == 0):
		return "", fmt.Errorf("%w: derive needs column and concat", ErrInvalidStep)
	}
	return op, nil
}

// Validate checks every step and that each reference points at an earlier step.
func (s *Spec) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("pipeline %q has no steps", s.Name)
	}
	seen := map[string]bool{}
	for i, st := range s.Steps {
		op, err := st.Op()
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if i == 0 && op != "load" && st.From == "" {
			return fmt.Errorf("step %d: %w: first step must load a source", i+1, ErrInvalidStep)
		}
		for _, ref := range []string{st.From, st.Join} {
			if ref != "" && !seen[ref] {
				return fmt.Errorf("step %d: unknown step %q", i+1, ref)
			}
		}
		if st.Name != "" {
			if seen[st.Name] {
				return fmt.Errorf("step %d: duplicate step name %q", i+1, st.Name)
			}
			seen[st.Name] = true
		}
	}
	return nil
}

// Parse decodes and validates a pipeline document.
func Parse(b []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse pipeline: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a pipeline from path. Relative load paths in the file
// resolve against its directory.
func LoadFile(path string) (*Spec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("pipeline not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read pipeline: %w", err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s.baseDir = filepath.Dir(path)
	return s, nil
}

// BaseDir returns the directory relative paths resolve against.
func (s *Spec) BaseDir() string { return s.baseDir }

// Save writes the pipeline using an atomic write.
func (s *Spec) Save(path string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// List returns the names of pipeline files in dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Extension))
	}
	sort.Strings(names)
	return names, nil
}

// Starter returns a small pipeline that loads source and previews it.
func Starter(name, source string) *Spec {
	head := 10
	return &Spec{
		Name:        name,
		Description: "loads " + filepath.Base(source),
		Steps: []Step{
			{Name: "source", Load: source},
			{Name: "clean", DropMissing: &[]string{}},
			{Head: &head},
		},
	}
}
