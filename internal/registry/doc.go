// Package registry discovers script modules on disk.
//
// A module is any directory that carries a descriptor (`module.toml`, or
// `module.yaml`/`module.yml`). Scan walks a modules root depth-first and stops
// descending at the first descriptor it meets on each branch, so a module
// directory can hold scripts and helper folders freely without them being
// mistaken for nested modules.
//
// Layout example:
//
//	modules/
//	├── games/
//	│   └── poe/
//	│       ├── module.toml   <- module "poe-tools"
//	│       └── tools/        <- never scanned
//	└── system/
//	    └── backup/
//	        └── module.yaml   <- module "backup"
package registry
