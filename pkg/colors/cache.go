// Package colors hands out stable colors to free-form tags such as resource
// categories and note types, recycling the least recently used color once
// all eleven are taken.
package colors

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	FileName = "palette.json"
	// NoTagColor is used for an empty tag.
	NoTagColor = "8"
	slots      = 11
)

// Hex holds the Google Calendar event palette, keyed by color id.
var Hex = map[string]string{
	"1":  "#7986cb",
	"2":  "#33b679",
	"3":  "#8e24aa",
	"4":  "#e67c73",
	"5":  "#f6bf26",
	"6":  "#f4511e",
	"7":  "#039be5",
	"8":  "#616161",
	"9":  "#3f51b5",
	"10": "#0b8043",
	"11": "#d50000",
}

type TagState struct {
	ColorID      string    `json:"color_id"`
	LastModified time.Time `json:"last_modified"`
}

type Palette struct {
	Path  string
	Tags  map[string]*TagState `json:"tags"`
	Now   func() time.Time
	dirty bool
}

// NewPalette loads the palette at path. An empty path keeps it in memory.
func NewPalette(path string) (*Palette, error) {
	p := &Palette{
		Path: path,
		Tags: make(map[string]*TagState),
		Now:  time.Now,
	}
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); err == nil {
		if err := p.Load(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Palette) Load() error {
	f, err := os.Open(p.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&p.Tags); err != nil {
		return err
	}
	if p.Tags == nil {
		p.Tags = make(map[string]*TagState)
	}
	return nil
}

func (p *Palette) Save() error {
	if !p.dirty || p.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0700); err != nil {
		log.Printf("Error creating palette directory: %v", err)
		return err
	}
	f, err := os.Create(p.Path)
	if err != nil {
		log.Printf("Error creating palette file: %v", err)
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(p.Tags)
	if err == nil {
		p.dirty = false
	}
	return err
}

// ColorID returns the color id for tag, assigning one on first use.
func (p *Palette) ColorID(tag string) string {
	if tag == "" {
		return NoTagColor
	}
	if state, exists := p.Tags[tag]; exists {
		state.LastModified = p.Now()
		p.dirty = true
		return state.ColorID
	}
	return p.assign(tag)
}

// Hex returns the color for tag as #rrggbb.
func (p *Palette) Hex(tag string) string {
	return Hex[p.ColorID(tag)]
}

func (p *Palette) assign(tag string) string {
	used := make(map[string]bool)
	for _, s := range p.Tags {
		used[s.ColorID] = true
	}
	for i := 1; i <= slots; i++ {
		id := strconv.Itoa(i)
		if !used[id] {
			p.Tags[tag] = &TagState{ColorID: id, LastModified: p.Now()}
			p.dirty = true
			return id
		}
	}

	// Full: recycle the least recently used color.
	var oldest string
	var oldestTime time.Time
	for t, s := range p.Tags {
		if oldest == "" || s.LastModified.Before(oldestTime) {
			oldest, oldestTime = t, s.LastModified
		}
	}
	recycled := p.Tags[oldest].ColorID
	delete(p.Tags, oldest)
	p.Tags[tag] = &TagState{ColorID: recycled, LastModified: p.Now()}
	p.dirty = true
	return recycled
}
