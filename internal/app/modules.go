package app

import (
	"github.com/vk/fndispatch/internal/registry"
	"github.com/vk/fndispatch/modules/arith"
	"github.com/vk/fndispatch/modules/env_vars"
	"github.com/vk/fndispatch/modules/noop"
	"github.com/vk/fndispatch/modules/print"
	"github.com/vk/fndispatch/modules/text"
)

// coreModules is the definitive list of all modules that are compiled into
// the fndispatch binary.
var coreModules = []registry.Module{
	&arith.Module{},
	&text.Module{},
	&env_vars.Module{},
	&print.Module{},
	&noop.Module{},
}
