package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tomgreen66/DynamO/sim"
	"github.com/tomgreen66/DynamO/sim/observer"
	_ "github.com/tomgreen66/DynamO/sim/liouvillean"
	_ "github.com/tomgreen66/DynamO/sim/scheduler"
	"github.com/tomgreen66/DynamO/sim/xmlconfig"
)

var (
	configPath      string // path to the XML configuration document
	outputPath      string // path to write the final config snapshot; "" skips writing one
	bundlePath      string // path to a YAML observer bundle; "" uses --observer alone
	maxEvents       int64  // 0 = use the config's MaxEvents (0 there = unbounded)
	maxSimTime      float64
	seedOverride    int64  // 0 = use the Seed already in the config
	logLevel        string
	schedulerKind   string // overrides Run.Scheduler when non-empty
	liouvilleanKind string // overrides Run.Dynamics when non-empty
	observerNames   []string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "dynamo",
	Short: "Event-driven molecular dynamics simulator",
}

// runCmd loads a configuration document and drives the simulation to
// completion, printing a metrics summary on exit.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from an XML configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level %q: %v", logLevel, err)
		}
		logrus.SetLevel(level)

		if configPath == "" {
			logrus.Fatal("--config is required")
		}

		doc, err := xmlconfig.LoadFile(configPath)
		if err != nil {
			logrus.Fatalf("loading config: %v", err)
		}
		if seedOverride != 0 {
			doc.Run.Seed = seedOverride
		}
		if schedulerKind != "" {
			doc.Run.Scheduler = schedulerKind
		}
		if liouvilleanKind != "" {
			doc.Run.Dynamics = liouvilleanKind
		}

		s, err := xmlconfig.Build(doc)
		if err != nil {
			logrus.Fatalf("building simulator: %v", err)
		}

		for _, name := range observerNames {
			ob, err := newObserver(name, s)
			if err != nil {
				logrus.Fatalf("attaching observer %q: %v", name, err)
			}
			s.AddObserver(ob)
		}

		if bundlePath != "" {
			bundle, err := observer.LoadBundle(bundlePath)
			if err != nil {
				logrus.Fatalf("loading observer bundle: %v", err)
			}
			if err := bundle.Validate(); err != nil {
				logrus.Fatalf("invalid observer bundle: %v", err)
			}
			obs, err := bundle.Build(s)
			if err != nil {
				logrus.Fatalf("building observer bundle: %v", err)
			}
			for _, ob := range obs {
				s.AddObserver(ob)
			}
		}

		events := maxEvents
		if events == 0 {
			events = doc.Run.MaxEvents
		}
		simTime := maxSimTime
		if simTime == 0 {
			simTime = doc.Run.MaxTime
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		start := time.Now()
		logrus.Infof("starting run: particles=%d interactions=%d locals=%d globals=%d seed=%d",
			s.Particles.Len(), len(s.Interactions), len(s.Locals), len(s.Globals), doc.Run.Seed)

		if err := s.Run(ctx, events, simTime); err != nil {
			logrus.Warnf("run ended early: %v", err)
		}

		elapsed := time.Since(start)
		s.Metrics.Print(s.EventCount, s.Clock)
		logrus.Infof("wall-clock: %s", elapsed)

		if outputPath != "" {
			if err := writeSnapshot(outputPath, doc, s); err != nil {
				logrus.Fatalf("writing output config: %v", err)
			}
		}
	},
}

// writeSnapshot updates doc's particle list with the simulator's final
// synchronized state and saves it to path, so a run's end state can seed
// a continuation run.
func writeSnapshot(path string, doc *xmlconfig.Document, s *sim.Simulator) error {
	for _, p := range s.Particles.All() {
		if !s.Dynamics.IsUpToDate(p, s.Clock) {
			s.Dynamics.Advance(s.Particles, p.ID, s.Clock-p.Clock)
		}
	}
	particles := s.Particles.All()
	out := make([]xmlconfig.ParticleElement, len(particles))
	for i, p := range particles {
		out[i] = xmlconfig.ParticleElement{
			ID:              p.ID,
			Species:         speciesName(doc, p.Species),
			Position:        xmlconfig.FromVec(p.Position),
			Velocity:        xmlconfig.FromVec(p.Velocity),
			HasOrientation:  p.HasOrientation,
			AngularVelocity: xmlconfig.FromVec(p.AngularVelocity),
		}
	}
	doc.Particles = out
	return xmlconfig.SaveFile(path, doc)
}

func speciesName(doc *xmlconfig.Document, index int) string {
	if index < 0 || index >= len(doc.Species) {
		return ""
	}
	return doc.Species[index].Name
}

// newObserver resolves an --observer flag value into a registered
// sim.Observer, wired against the simulator being constructed.
func newObserver(name string, s *sim.Simulator) (sim.Observer, error) {
	switch name {
	case "energy-momentum":
		return observer.NewEnergyMomentumTracker(name), nil
	case "histogram-vx":
		return observer.NewHistogramObserver(name, 0, 0.1), nil
	case "povray":
		return observer.NewPovRayDumper(name, os.Stdout, 1000, 0.5, s.Particles), nil
	case "snapshot":
		return observer.NewConfigSnapshotWriter(name, os.Stdout, 1000, s.Particles), nil
	default:
		return nil, &unknownObserverError{name}
	}
}

type unknownObserverError struct{ name string }

func (e *unknownObserverError) Error() string { return "unknown observer " + e.name }

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "path to the XML configuration file (required)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "path to write the final particle configuration")
	runCmd.Flags().StringVar(&bundlePath, "observer-bundle", "", "path to a YAML file naming a reusable set of observers")
	runCmd.Flags().Int64Var(&maxEvents, "events", 0, "maximum number of events to execute (0 = use config, then unbounded)")
	runCmd.Flags().Float64Var(&maxSimTime, "sim-time", 0, "maximum simulation time to reach (0 = use config, then unbounded)")
	runCmd.Flags().Int64Var(&seedOverride, "seed", 0, "override the config's RNG seed (0 = use config)")
	runCmd.Flags().StringVar(&schedulerKind, "scheduler", "", "override the config's scheduler (bounded-pel, calendar-queue)")
	runCmd.Flags().StringVar(&liouvilleanKind, "liouvillean", "", "override the config's dynamics (newtonian, shearing)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringSliceVar(&observerNames, "observer", nil, "observers to attach (energy-momentum, histogram-vx, povray, snapshot)")

	rootCmd.AddCommand(runCmd)
}
