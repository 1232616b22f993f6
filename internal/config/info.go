package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/judgeline/internal/game"
	"gopkg.in/yaml.v3"
)

// Info describes a chart directory. It is read from info.yml, or guessed
// from the files present when there is none.
type Info struct {
	Name         string            `yaml:"name"`
	Composer     string            `yaml:"composer"`
	Charter      string            `yaml:"charter"`
	Illustrator  string            `yaml:"illustrator"`
	Level        string            `yaml:"level"`
	Format       *game.ChartFormat `yaml:"format"` // detected from the chart text when nil
	Chart        string            `yaml:"chart"`
	Music        string            `yaml:"music"`
	Illustration string            `yaml:"illustration"`
	Offset       float64           `yaml:"offset"` // seconds, added to the chart's own offset
	Speed        float64           `yaml:"speed"`
	Autoplay     bool              `yaml:"autoplay"`
	AspectRatio  float64           `yaml:"aspectRatio"`
}

const InfoFile = "info.yml"

// ParseInfo reads info.yml text.
func ParseInfo(data []byte) (*Info, error) {
	info := &Info{}
	if err := yaml.Unmarshal(data, info); nil != err {
		return nil, fmt.Errorf("unable to parse %v: %w", InfoFile, err)
	}
	if info.Chart == "" {
		return nil, fmt.Errorf("%v names no chart", InfoFile)
	}
	info.defaults()
	return info, nil
}

func (i *Info) defaults() {
	if i.Speed <= 0 {
		i.Speed = 1
	}
	if i.AspectRatio <= 0 {
		i.AspectRatio = 16.0 / 9
	}
	if i.Name == "" {
		i.Name = strings.TrimSuffix(path.Base(i.Chart), path.Ext(i.Chart))
	}
}

// Discover reads dir/info.yml, falling back to the first chart, music and
// illustration files found under dir.
func Discover(dir string) (*Info, error) {
	data, err := os.ReadFile(filepath.Join(dir, InfoFile))
	if nil == err {
		return ParseInfo(data)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to read %v: %w", InfoFile, err)
	}

	info := &Info{}
	if err := filepath.Walk(dir, func(p string, fi os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if nil != err {
			return err
		}
		rel = filepath.ToSlash(rel)
		switch strings.ToLower(path.Ext(fi.Name())) {
		case ".json", ".pec":
			if info.Chart == "" {
				info.Chart = rel
			}
		case ".ogg", ".mp3", ".wav":
			if info.Music == "" {
				info.Music = rel
			}
		case ".png", ".jpg", ".jpeg":
			if info.Illustration == "" {
				info.Illustration = rel
			}
		}
		return nil
	}); nil != err {
		return nil, fmt.Errorf("unable to walk chart directory: %w", err)
	}

	if info.Chart == "" {
		return nil, errors.New("unable to find a .json or .pec chart in the given directory")
	}
	info.defaults()
	return info, nil
}

// Apply folds the command line into the info. The speed flag wins when set
// and the autoplay flag can only turn autoplay on.
func (i *Info) Apply() {
	if nil != Speed && *Speed > 0 {
		i.Speed = *Speed
	}
	if nil != Autoplay && *Autoplay {
		i.Autoplay = true
	}
	if nil != Offset {
		i.Offset += Offset.Seconds()
	}
}
