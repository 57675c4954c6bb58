// meshbake flattens a glTF scene graph into a single pre-transformed mesh.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "bake":
		err = cmdBake(args)
	case "info":
		err = cmdInfo(args)
	case "watch":
		err = cmdWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshbake - glTF scene graph flattener

Usage:
  meshbake <command> [options]

Commands:
  bake  [flags]          Merge every mesh instance into one mesh
  info  <file.gltf>      Show node, mesh and accessor counts
  watch [flags]          Rebake whenever the input changes
  help                   Show this message

Bake flags:
  -config <file>         Config file (default: ./meshbake.yaml)
  -base <dir>            Directory the input resolves against
  -in <file>             Input .gltf or .glb
  -out <file>            Output file name (default: MergedMesh.gltf)
  -outdir <dir>          Output directory (default: input base)
  -buffer <name>         Output buffer name (default: MergedMesh)
  -glb                   Write a binary GLB container
  -normals               Re-orient normals with the world transform
  -no-camera             Drop camera nodes
  -debug                 Enable debug logging
  -dump-config <file>    Write the effective config and continue

Examples:
  meshbake bake -in Data/buggy.gltf
  meshbake bake -base Data -in buggy.gltf -out MergedMesh_Buggy.glb
  meshbake info Data/buggy.gltf
  meshbake watch -in Data/buggy.gltf -normals`)
}
