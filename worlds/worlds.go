// Package worlds embeds the world that ships with the game.
package worlds

import (
	"embed"
	"io/fs"
)

//go:embed default/*.lua default/*.yaml
var files embed.FS

// Default returns the built-in world's files, rooted at the world directory.
func Default() fs.FS {
	sub, err := fs.Sub(files, "default")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return sub
}
