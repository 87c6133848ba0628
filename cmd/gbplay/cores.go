package main

import (
	emucore "github.com/user-none/eblitui/api"

	"gbplay/emu/gameboy"
)

// coreFactory is the Game Boy core this build ships. The gameboy driver
// wraps any emucore.CoreFactory, so a build supplies its core by
// assigning one here (typically from an init() in a build-tagged file
// alongside this one). Left nil, the bot refuses to start with
// --driver gameboy; the mock driver stays available for trying the
// chat surface without a core.
var coreFactory emucore.CoreFactory

func wireCores() {
	if coreFactory != nil {
		gameboy.UseCore(coreFactory)
	}
}
