// classify is a CLI utility that runs the layer classifier on a GLB model
// without opening a window.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/phone-teardown/internal/assets"
	"github.com/Faultbox/phone-teardown/internal/explode"
	"github.com/Faultbox/phone-teardown/internal/logger"
	"github.com/Faultbox/phone-teardown/internal/scene"
	"github.com/Faultbox/phone-teardown/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "report":
		cmdReport(args)
	case "tree":
		cmdTree(args)
	case "rules":
		cmdRules()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`classify - phone model layer classifier

Usage:
  classify <command> [options]

Commands:
  report [-json] [-v] <file.glb>   Classify meshes and print the layer buckets
  tree <file.glb>                  Print the node hierarchy with mesh kinds
  rules                            Print the name rules in match order

Examples:
  classify report assets/models/phone.glb
  classify report -json assets/models/phone.glb > buckets.json
  classify tree assets/models/phone.glb`)
}

func loadModel(path string, verbose bool) *scene.Node {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	g, err := formats.ParseGLBFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	root, err := assets.Import(g, filepath.Base(path), logger.Named("import"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return root
}

type meshReport struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Vertices    int    `json:"vertices"`
	Triangles   int    `json:"triangles"`
	HasUVs      bool   `json:"has_uvs"`
	RenderOrder int    `json:"render_order"`
	Material    string `json:"material"`
}

type layerReport struct {
	Layer  string       `json:"layer"`
	Meshes []meshReport `json:"meshes"`
}

func cmdReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	verbose := fs.Bool("v", false, "Log classifier diagnostics")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: classify report [-json] [-v] <file.glb>")
		os.Exit(1)
	}
	defer logger.Sync()

	asset := loadModel(fs.Arg(0), *verbose)
	_, buckets := explode.Instantiate(asset, nil, explode.Options{Logger: logger.Named("classify")})

	var report []layerReport
	for _, l := range explode.Layers {
		lr := layerReport{Layer: l.String(), Meshes: []meshReport{}}
		for _, n := range buckets.Layer(l) {
			lr.Meshes = append(lr.Meshes, describe(n))
		}
		report = append(report, lr)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Model:  %s\n", fs.Arg(0))
	fmt.Printf("Meshes: %d\n", buckets.Len())
	for _, lr := range report {
		fmt.Println()
		fmt.Printf("%s (%d)\n", lr.Layer, len(lr.Meshes))
		for _, m := range lr.Meshes {
			uv := ""
			if !m.HasUVs {
				uv = "  no uvs"
			}
			fmt.Printf("  %-32s %-8s order %d  %6d verts  %6d tris%s\n",
				m.Name, m.Kind, m.RenderOrder, m.Vertices, m.Triangles, uv)
		}
	}
}

func describe(n *scene.Node) meshReport {
	g := n.Geometry
	tris := len(g.Indices) / 3
	if len(g.Indices) == 0 {
		tris = g.VertexCount() / 3
	}
	return meshReport{
		Name:        n.Name,
		Kind:        explode.ClassifyName(n.Name, explode.DefaultRules).String(),
		Vertices:    g.VertexCount(),
		Triangles:   tris,
		HasUVs:      g.HasUVs(),
		RenderOrder: n.Material.RenderOrder,
		Material:    n.Material.Name,
	}
}

func cmdTree(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: classify tree <file.glb>")
		os.Exit(1)
	}
	defer logger.Sync()

	root := loadModel(args[0], false)
	printNode(root, 0)
}

func printNode(n *scene.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsMesh() {
		kind := explode.ClassifyName(n.Name, explode.DefaultRules)
		fmt.Printf("%s%s [%s, %d verts]\n", indent, n.Name, kind, n.Geometry.VertexCount())
	} else {
		fmt.Printf("%s%s\n", indent, n.Name)
	}
	for _, c := range n.Children {
		printNode(c, depth+1)
	}
}

func cmdRules() {
	for i, r := range explode.DefaultRules {
		fmt.Printf("%d. %-12s -> %s\n", i+1, r.Name, r.Kind)
	}
	fmt.Printf("%d. %-12s -> %s\n", len(explode.DefaultRules)+1, "(otherwise)", explode.KindBody)
}
