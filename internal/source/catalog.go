package source

import (
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/JuniperCitations/core/errors"
)

// Entry is the bibliographic data of one plain-text manuscript.
type Entry struct {
	Author   string `yaml:"author,omitempty"`
	Title    string `yaml:"title,omitempty"`
	Year     int    `yaml:"year,omitempty"`
	URL      string `yaml:"url,omitempty"`
	Category string `yaml:"category,omitempty"`
}

// Catalog maps manuscript file names to their bibliographic data. Plain
// text carries no metadata of its own, so this is the only source of it.
type Catalog struct {
	Manuscripts map[string]Entry `yaml:"manuscripts"`
}

// DefaultCatalog returns the built-in entries.
func DefaultCatalog() *Catalog {
	return &Catalog{Manuscripts: map[string]Entry{
		"mort.txt":       {Author: "John Owen", Title: "Of the Mortification of Sin in Believers", Year: 1656},
		"government.txt": {Author: "Richard Allestree", Title: "The Government of the Tongue", Year: 1674},
		"sermons.txt":    {Author: "Meister Eckhart", Title: "Sermons", Year: 1300},
		"warrant3.txt":   {Author: "Alvin Plantinga", Title: "Warranted Christian Belief", Year: 2000},
	}}
}

// ParseCatalog decodes a YAML catalog. Its entries are laid over the
// built-in ones.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &errors.ParseError{Format: "catalog", Message: err.Error(), Err: err}
	}
	c := DefaultCatalog()
	for name, e := range file.Manuscripts {
		c.Manuscripts[name] = e
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog file. An empty path yields the defaults.
func LoadCatalog(p string) (*Catalog, error) {
	if p == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.NewIO("read", p, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.Path = p
		}
		return nil, err
	}
	return c, nil
}

// Lookup finds the entry for a manuscript, first by its slash-separated
// name and then by its base name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	name = filepath.ToSlash(name)
	if e, ok := c.Manuscripts[name]; ok {
		return e, true
	}
	e, ok := c.Manuscripts[path.Base(name)]
	return e, ok
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
