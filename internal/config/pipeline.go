package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Veraticus/aneks/internal/common"
	"github.com/Veraticus/aneks/internal/inventory"
	"github.com/Veraticus/aneks/internal/lock"
	"github.com/Veraticus/aneks/internal/storage"
)

// Defaults for pipeline configuration keys.
const (
	DefaultSourcePath     = "./contracts"
	DefaultWorkingDir     = "./data"
	DefaultOutputDir      = "./output"
	DefaultFuzzyThreshold = inventory.DefaultFuzzyThreshold

	// workingCopyDir is the folder under the working dir holding the copy.
	workingCopyDir = "source"
)

// Pipeline holds the resolved paths and tuning of a pipeline run.
type Pipeline struct {
	SourcePath     string
	WorkingDir     string
	OutputDir      string
	DatabasePath   string
	FuzzyThreshold int
	FuzzyEnabled   bool
}

// SetDefaults registers the pipeline defaults with viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("paths.source", DefaultSourcePath)
	v.SetDefault("paths.working_dir", DefaultWorkingDir)
	v.SetDefault("paths.output_dir", DefaultOutputDir)
	v.SetDefault("inventory.fuzzy_threshold", DefaultFuzzyThreshold)
	v.SetDefault("inventory.fuzzy_enabled", true)
}

// Load reads pipeline configuration from the global viper instance.
func Load() (*Pipeline, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates pipeline configuration from v.
func LoadFrom(v *viper.Viper) (*Pipeline, error) {
	SetDefaults(v)

	p := &Pipeline{
		SourcePath:     ExpandPath(v.GetString("paths.source")),
		WorkingDir:     ExpandPath(v.GetString("paths.working_dir")),
		OutputDir:      ExpandPath(v.GetString("paths.output_dir")),
		DatabasePath:   ExpandPath(v.GetString("database.path")),
		FuzzyThreshold: v.GetInt("inventory.fuzzy_threshold"),
		FuzzyEnabled:   v.GetBool("inventory.fuzzy_enabled"),
	}
	if p.DatabasePath == "" {
		p.DatabasePath = filepath.Join(p.WorkingDir, storage.DefaultFileName)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the configuration is usable.
func (p *Pipeline) Validate() error {
	if p.SourcePath == "" {
		return fmt.Errorf("%w: paths.source cannot be empty", common.ErrInvalidConfig)
	}
	if p.WorkingDir == "" {
		return fmt.Errorf("%w: paths.working_dir cannot be empty", common.ErrInvalidConfig)
	}
	// Zero would silently fall back to the default; fuzzy_enabled turns the pass off.
	if p.FuzzyThreshold < 1 || p.FuzzyThreshold > 100 {
		return fmt.Errorf("%w: inventory.fuzzy_threshold must be between 1 and 100, got %d",
			common.ErrInvalidConfig, p.FuzzyThreshold)
	}
	return nil
}

// WorkingCopyPath is where the source tree is copied to.
func (p *Pipeline) WorkingCopyPath() string {
	return filepath.Join(p.WorkingDir, workingCopyDir)
}

// InventoryPath is where the inventory JSON is written.
func (p *Pipeline) InventoryPath() string {
	return filepath.Join(p.WorkingDir, inventory.InventoryFileName)
}

// LockPath is the pipeline lock file.
func (p *Pipeline) LockPath() string {
	return filepath.Join(p.WorkingDir, lock.FileName)
}
