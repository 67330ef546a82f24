// Bough opens a window with an editable procedural tree.
//
// Usage:
//
//	bough [-config bough.toml] [-depth 5] [-branches 6] [-edit] [-spin]
//
// Flags override values from the config file. Logging goes through glog;
// pass -v=1 for rebuild and graft logs, -v=2 for per-frame stats.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/phanxgames/bough"
)

var (
	configPath  = flag.String("config", "", "path to a TOML config file")
	writeConfig = flag.String("write-config", "", "write the effective config as TOML to this path and exit")
	depth       = flag.Int("depth", 0, "tree depth in [1, 6] (0 keeps the config value)")
	branches    = flag.Int("branches", 0, "branches per node in [1, 6] (0 keeps the config value)")
	edit        = flag.Bool("edit", false, "start in edit mode")
	spin        = flag.Bool("spin", false, "start spinning")
	seed        = flag.Uint64("seed", 0, "graft slot seed (0 is random)")
	script      = flag.String("script", "", "path to a JSON test script to run")
	debug       = flag.Bool("debug", false, "log per-frame draw stats")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg := bough.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = bough.LoadConfig(*configPath)
		if err != nil {
			glog.Exitf("bough: %v", err)
		}
	}
	if *depth != 0 {
		cfg.Depth = *depth
	}
	if *branches != 0 {
		cfg.BranchCount = *branches
	}
	cfg.EditMode = cfg.EditMode || *edit
	cfg.Spin = cfg.Spin || *spin
	cfg.Debug = cfg.Debug || *debug
	if *seed != 0 {
		cfg.Seed = *seed
	}

	if *writeConfig != "" {
		data, err := cfg.Encode()
		if err != nil {
			glog.Exitf("bough: encode config: %v", err)
		}
		if err := os.WriteFile(*writeConfig, data, 0o644); err != nil {
			glog.Exitf("bough: %v", err)
		}
		glog.Infof("bough: wrote config to %s", *writeConfig)
		return
	}

	scene, err := bough.NewScene(cfg)
	if err != nil {
		glog.Exitf("bough: %v", err)
	}
	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			glog.Exitf("bough: %v", err)
		}
		runner, err := bough.LoadTestScript(data)
		if err != nil {
			glog.Exitf("bough: %s: %v", *script, err)
		}
		scene.SetTestRunner(runner)
	}

	glog.Infof("bough: depth=%d branches=%d edit=%v spin=%v",
		cfg.Depth, cfg.BranchCount, cfg.EditMode, cfg.Spin)
	if err := bough.Run(scene, cfg.RunConfig()); err != nil {
		glog.Exitf("bough: %v", err)
	}
}
