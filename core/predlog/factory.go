package predlog

import "github.com/ridepulse/eta/core/factory"

var storeRegistry = factory.NewRegistry[Store]()

// RegisterStore adds a prediction log store factory identified by name.
func RegisterStore(name string, f factory.Factory[Store]) error {
	return storeRegistry.Register(name, f)
}

// NewStore creates a Store from the provided configuration. An empty type
// means logging is disabled and a NopStore is returned.
func NewStore(cfg factory.ModuleConfig) (Store, error) {
	if cfg.Type == "" {
		return NopStore{}, nil
	}
	return storeRegistry.Create(cfg)
}

type fileConf struct {
	Path string `json:"path"`
}

type rotatingConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// init registers the built-in store backends.
func init() {
	_ = RegisterStore("nop", func(map[string]any) (Store, error) {
		return NopStore{}, nil
	})
	_ = RegisterStore("jsonl", func(conf map[string]any) (Store, error) {
		var c fileConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewJSONLStore(c.Path)
	})
	_ = RegisterStore("rotating", func(conf map[string]any) (Store, error) {
		var c rotatingConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	_ = RegisterStore("sqlite", func(conf map[string]any) (Store, error) {
		var c fileConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
}
