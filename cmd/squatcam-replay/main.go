// squatcam-replay runs a recorded pose trace through the counting
// pipeline without a camera or model, for tuning thresholds offline.
//
// Input is JSONL, one frame per line:
//
//	{"t": 0.5, "pose": {"landmarks": [...17 landmarks...]}}
//	{"t": 1.0, "pose": null}
//
// where t is seconds from trace start and a null pose means no person
// was detected that frame.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/teslashibe/squatcam/internal/config"
	"github.com/teslashibe/squatcam/internal/log"
	"github.com/teslashibe/squatcam/pkg/pose"
	"github.com/teslashibe/squatcam/pkg/session"
)

type traceFrame struct {
	T    float64    `json:"t"`
	Pose *pose.Pose `json:"pose"`
}

func main() {
	var (
		configPath = flag.String("config", "", "path to squatcam.yaml (optional)")
		verbose    = flag.Bool("v", false, "print every per-frame status")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: squatcam-replay [-config file] [-v] trace.jsonl")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading config", "error", err)
		os.Exit(1)
	}
	log.Init(cfg.Log.Level)

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Error("opening trace", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	pipeline := session.NewPipeline(cfg.CounterConfig())
	base := time.Now()

	frames := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var fr traceFrame
		if err := json.Unmarshal(line, &fr); err != nil {
			log.Error("bad trace line", "line", frames+1, "error", err)
			os.Exit(1)
		}

		at := base.Add(time.Duration(fr.T * float64(time.Second)))
		u := pipeline.Process(fr.Pose, at)
		frames++

		if *verbose {
			fmt.Printf("%6.2fs  %s\n", fr.T, u.Status)
		}
		if u.Counted {
			fmt.Printf("%6.2fs  rep %d (bottom %.1f°)\n", fr.T, u.Count, u.Depth)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("reading trace", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d frames, %d reps\n", frames, pipeline.Count())
}
