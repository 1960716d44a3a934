// squatcam counts squat repetitions from a camera feed and serves a
// live dashboard with per-frame status and count events.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/squatcam/internal/config"
	"github.com/teslashibe/squatcam/internal/log"
	"github.com/teslashibe/squatcam/pkg/capture"
	"github.com/teslashibe/squatcam/pkg/pose"
	"github.com/teslashibe/squatcam/pkg/session"
	"github.com/teslashibe/squatcam/pkg/web"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to squatcam.yaml (optional)")
		device     = flag.Int("device", -1, "camera device index (overrides config)")
		modelPath  = flag.String("model", "", "path to the pose ONNX model (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading config", "error", err)
		os.Exit(1)
	}
	if *device >= 0 {
		cfg.Camera.Device = *device
	}
	if *modelPath != "" {
		cfg.Pose.ModelPath = *modelPath
	}

	log.Init(cfg.Log.Level)

	detector, err := pose.NewMoveNet(cfg.PoseConfig())
	if err != nil {
		log.Error("loading pose model", "error", err)
		os.Exit(1)
	}
	defer detector.Close()

	server := web.NewServer(cfg.Server.Addr())
	sess := session.New(cfg.CounterConfig(), sourceFunc(cfg), detector, server)
	sess.SetFrameSink(server)
	server.SetSession(sess)

	server.StartAsync()

	if err := sess.Start(); err != nil {
		log.Error("starting session", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("shutting down")
		sess.Stop()
		<-sess.Done()
	case <-sess.Done():
		// Camera failed or stream ended; keep serving the dashboard so
		// the operator can restart via the API.
		log.Warn("session ended, dashboard still available")
		<-sigCh
	}

	if err := server.Shutdown(); err != nil {
		log.Warn("shutting down web server", "error", err)
	}
}

// sourceFunc picks the capture source from the configuration: a remote
// frame stream, a recorded file, or the local camera.
func sourceFunc(cfg *config.Config) session.SourceFunc {
	switch {
	case cfg.Camera.RemoteURL != "":
		return func() (capture.Source, error) {
			return capture.DialRemote(cfg.Camera.RemoteURL)
		}
	case cfg.Camera.VideoFile != "":
		return func() (capture.Source, error) {
			return capture.OpenFile(cfg.Camera.VideoFile)
		}
	default:
		return func() (capture.Source, error) {
			return capture.OpenWebcam(cfg.Camera.Device, cfg.Camera.Width, cfg.Camera.Height)
		}
	}
}
