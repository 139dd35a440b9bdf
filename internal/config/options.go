package config

// BackupOptions mirrors the engine's backup flags plus the post-backup
// retention trigger and hooks. Field order here is the order flags are
// emitted on the command line.
type BackupOptions struct {
	Forget            bool        `yaml:"forget"`
	Exclude           []string    `yaml:"exclude"`
	IExclude          []string    `yaml:"iexclude"`
	ExcludeFile       []string    `yaml:"exclude-file"`
	IExcludeFile      []string    `yaml:"iexclude-file"`
	ExcludeCaches     bool        `yaml:"exclude-caches"`
	ExcludeIfPresent  []string    `yaml:"exclude-if-present"`
	ExcludeLargerThan string      `yaml:"exclude-larger-than"`
	IgnoreCtime       bool        `yaml:"ignore-ctime"`
	IgnoreInode       bool        `yaml:"ignore-inode"`
	NoScan            bool        `yaml:"no-scan"`
	OneFileSystem     bool        `yaml:"one-file-system"`
	SkipIfUnchanged   bool        `yaml:"skip-if-unchanged"`
	UseFsSnapshot     bool        `yaml:"use-fs-snapshot"`
	WithAtime         bool        `yaml:"with-atime"`
	Hooks             HookOptions `yaml:"hooks"`
}

// ForgetOptions mirrors the engine's forget/retention flags.
type ForgetOptions struct {
	Prune             bool        `yaml:"prune"`
	KeepLast          *int        `yaml:"keep-last"`
	KeepHourly        *int        `yaml:"keep-hourly"`
	KeepDaily         *int        `yaml:"keep-daily"`
	KeepWeekly        *int        `yaml:"keep-weekly"`
	KeepMonthly       *int        `yaml:"keep-monthly"`
	KeepYearly        *int        `yaml:"keep-yearly"`
	KeepWithin        string      `yaml:"keep-within"`
	KeepWithinHourly  string      `yaml:"keep-within-hourly"`
	KeepWithinDaily   string      `yaml:"keep-within-daily"`
	KeepWithinWeekly  string      `yaml:"keep-within-weekly"`
	KeepWithinMonthly string      `yaml:"keep-within-monthly"`
	KeepWithinYearly  string      `yaml:"keep-within-yearly"`
	KeepTag           []string    `yaml:"keep-tag"`
	Hooks             HookOptions `yaml:"hooks"`
}

// HookOptions holds the guard command chains for an operation. The "if"
// chain gates the operation: the first non-zero exit skips it.
type HookOptions struct {
	If []CommandSeq `yaml:"if"`
}
