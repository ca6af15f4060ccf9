// meshinfo is a CLI utility for inspecting glTF binary models without
// opening a viewer window.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aa1412666/meshview/internal/assets"
	"github.com/aa1412666/meshview/internal/engine/model"
	"github.com/aa1412666/meshview/internal/loader"
	"github.com/aa1412666/meshview/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "tree":
		cmdTree(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshinfo - glTF model inspection utility

Usage:
  meshinfo <command> [options] <model>

Commands:
  info <model.glb>   Show counts and the bounding volume
  tree <model.glb>   Print the node hierarchy

Options:
  -assets <dir>      Extra asset search directory
  -v                 Show loader warnings

Examples:
  meshinfo info assets/models/UtensilsJar001.glb
  meshinfo tree -assets ./assets /models/UtensilsJar001.glb`)
}

func cmdInfo(args []string) {
	m := loadModel("info", args)

	prims := 0
	for i := range m.Meshes {
		prims += len(m.Meshes[i].Primitives)
	}
	name := m.Name
	if name == "" {
		name = "(unnamed)"
	}

	fmt.Printf("Model:     %s\n", name)
	fmt.Printf("Nodes:     %d\n", len(m.Nodes))
	fmt.Printf("Meshes:    %d (%d primitives)\n", len(m.Meshes), prims)
	fmt.Printf("Materials: %d\n", len(m.Materials))
	fmt.Printf("Triangles: %d\n", m.TriangleCount())

	bounds := m.Bounds()
	if bounds.IsEmpty() {
		fmt.Println("Bounds:    (empty)")
		return
	}
	c, s := bounds.Center(), bounds.Size()
	fmt.Println()
	fmt.Printf("Bounds min: (%.3f, %.3f, %.3f)\n", bounds.Min.X, bounds.Min.Y, bounds.Min.Z)
	fmt.Printf("Bounds max: (%.3f, %.3f, %.3f)\n", bounds.Max.X, bounds.Max.Y, bounds.Max.Z)
	fmt.Printf("Center:     (%.3f, %.3f, %.3f)\n", c.X, c.Y, c.Z)
	fmt.Printf("Size:       (%.3f, %.3f, %.3f)\n", s.X, s.Y, s.Z)
}

func cmdTree(args []string) {
	m := loadModel("tree", args)

	visited := make(map[int]bool, len(m.Nodes))
	var print func(idx, depth int)
	print = func(idx, depth int) {
		if idx < 0 || idx >= len(m.Nodes) || visited[idx] {
			return
		}
		visited[idx] = true

		n := &m.Nodes[idx]
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("#%d", idx)
		}
		indent := strings.Repeat("  ", depth)

		if n.Mesh != model.NoMesh && n.Mesh < len(m.Meshes) {
			mesh := &m.Meshes[n.Mesh]
			tris := 0
			for i := range mesh.Primitives {
				tris += mesh.Primitives[i].TriangleCount()
			}
			fmt.Printf("%s%s [mesh %d, %d triangles]\n", indent, name, n.Mesh, tris)
		} else {
			fmt.Printf("%s%s\n", indent, name)
		}

		for _, child := range n.Children {
			print(child, depth+1)
		}
	}
	for _, root := range m.Roots {
		print(root, 0)
	}
}

// loadModel parses the common flags and loads the positional model
// argument through the asset pipeline.
func loadModel(name string, args []string) *model.Model {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	assetsDir := fs.String("assets", "", "Extra asset search directory")
	verbose := fs.Bool("v", false, "Show loader warnings")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: meshinfo %s [-assets dir] <model.glb>\n", name)
		os.Exit(1)
	}

	if *verbose {
		if err := logger.Init("info", ""); err != nil {
			fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
			os.Exit(1)
		}
	} else {
		logger.InitNop()
	}

	dirs := []string{"assets"}
	if *assetsDir != "" {
		dirs = append(dirs, *assetsDir)
	}
	mgr := assets.NewManager(dirs, 0)

	m, err := loader.Load(mgr, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return m
}
