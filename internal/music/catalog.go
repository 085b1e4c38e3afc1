package music

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jarvis/internal/command"
)

type Entry struct {
	Name string
	URL  string
}

// Catalog maps normalized song names to URLs. Iteration order is the order
// entries were added, which for a loaded file is document order.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

func NewCatalog(entries ...Entry) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if err := c.add(e.Name, e.URL); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(name, url string) error {
	key := command.Normalize(name)
	url = strings.TrimSpace(url)
	if key == "" {
		return errors.New("empty song name")
	}
	if url == "" {
		return fmt.Errorf("song %q: empty url", key)
	}
	if _, dup := c.index[key]; dup {
		return fmt.Errorf("duplicate song %q", key)
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Entry{Name: key, URL: url})
	return nil
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func (c *Catalog) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	i, ok := c.index[key]
	if !ok {
		return "", false
	}
	return c.entries[i].URL, true
}

func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// LoadFile reads a YAML mapping of song name to URL. An empty path yields an
// empty catalog.
func LoadFile(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return NewCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	c, _ := NewCatalog()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return c, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of song name to url", root.Line)
	}

	// mapping content alternates key, value
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: url for %q must be a string", v.Line, k.Value)
		}
		if err := c.add(k.Value, v.Value); err != nil {
			return nil, fmt.Errorf("line %d: %w", k.Line, err)
		}
	}
	return c, nil
}
