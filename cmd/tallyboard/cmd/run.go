package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/solatis/tallyboard/internal/bridge"
	"github.com/solatis/tallyboard/internal/catalog"
	"github.com/solatis/tallyboard/internal/core/config"
	"github.com/solatis/tallyboard/internal/core/db"
	"github.com/solatis/tallyboard/internal/loop"
	"github.com/solatis/tallyboard/internal/types"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulator session against the engine boundary",
	Long: `Loads the rule catalog, connects the Redis Streams engine boundary,
and processes user commands as JSON lines on stdin:

  {"cmd":"answer","name":"transport . voiture . km","value":{"type":"number","number":12000}}
  {"cmd":"import","path":"situation.json"}
  {"cmd":"reset"}
  {"cmd":"toggle","category":"transport"}
  {"cmd":"export"}
  {"cmd":"breakdown"}
  {"cmd":"control","name":"transport . voiture . km"}
  {"cmd":"status"}`,
	RunE: runSimulator,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("rules", "", "rules catalog file (overrides config)")
	runCmd.Flags().String("ui", "", "UI index file (overrides config)")
	runCmd.Flags().String("session", "", "session ID for situation persistence (overrides config)")
}

// userCommand is one JSON line on stdin.
type userCommand struct {
	Cmd      string           `json:"cmd"`
	Name     types.RuleName   `json:"name,omitempty"`
	Value    *types.NodeValue `json:"value,omitempty"`
	Path     string           `json:"path,omitempty"`
	Category string           `json:"category,omitempty"`
}

func runSimulator(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("rules") {
		cfg.RulesPath, _ = cmd.Flags().GetString("rules")
	}
	if cmd.Flags().Changed("ui") {
		cfg.UIPath, _ = cmd.Flags().GetString("ui")
	}
	if cmd.Flags().Changed("session") {
		cfg.SessionID, _ = cmd.Flags().GetString("session")
	}

	cat, err := catalog.Load(cfg.RulesPath, cfg.UIPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	session, persister, restored, err := openPersistence(ctx, cfg)
	if err != nil {
		return err
	}

	transport, err := bridge.NewRedisTransport(bridge.RedisConfig{
		Addr:          cfg.Redis.Addr,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		RequestStream: cfg.Redis.RequestStream,
		EventStream:   cfg.Redis.EventStream,
		ConsumerGroup: cfg.Redis.ConsumerGroup,
		BlockTime:     cfg.Redis.BlockTime,
	})
	if err != nil {
		return fmt.Errorf("failed to create engine transport: %w", err)
	}
	if err := transport.Start(ctx); err != nil {
		return fmt.Errorf("failed to start engine transport: %w", err)
	}
	defer transport.Stop(context.Background())

	sim := loop.New(cat, bridge.WithSendTimeout(transport, cfg.RequestTimeout), persister, session)

	// Restore the persisted situation before the first evaluation so the
	// engine recomputes from where the session left off.
	if restored != nil {
		data, err := json.Marshal(restored)
		if err != nil {
			log.Printf("could not re-serialize restored situation, starting empty: %v", err)
		} else {
			sim.HandleCommand(ctx, loop.Import{Data: data})
		}
	}

	if err := sim.Start(ctx); err != nil {
		return fmt.Errorf("initial evaluateAll failed: %w", err)
	}

	log.Printf("tallyboard v%s: session %s, %d rules cataloged", Version, session, cat.Len())

	inputs := make(chan userCommand)
	go readCommands(os.Stdin, inputs)

	events := transport.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			sim.HandleEvent(ctx, event)
			if err := sim.CurrentError(); err != nil {
				log.Printf("current error: %v", err)
			}
		case in, ok := <-inputs:
			if !ok {
				return nil
			}
			handleInput(ctx, sim, in)
		}
	}
}

// openPersistence wires the optional situation store. Returns a fresh or
// configured session ID, a nil persister when --db-url is absent, and any
// previously persisted snapshot for the session.
func openPersistence(ctx context.Context, cfg *config.SimulatorConfig) (types.SessionID, loop.Persister, map[types.RuleName]types.NodeValue, error) {
	var session types.SessionID
	if cfg.SessionID != "" {
		parsed, err := types.ParseSessionID(cfg.SessionID)
		if err != nil {
			return "", nil, nil, fmt.Errorf("invalid session ID %q: %w", cfg.SessionID, err)
		}
		session = parsed
	} else {
		session = types.NewSessionID()
	}

	if dbURL == "" {
		return session, nil, nil, nil
	}

	database, err := db.Open(dbURL)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	statuses, err := db.MigrateStatus(database)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to check migrations: %w", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			return "", nil, nil, fmt.Errorf("migration %s not applied - run 'tallyboard migrate' first", s.ID)
		}
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	store, err := db.NewSituationStore(queries)
	if err != nil {
		return "", nil, nil, err
	}

	restored, found, err := store.LoadSituation(ctx, session)
	if err != nil {
		log.Printf("could not restore persisted situation: %v", err)
	} else if found {
		log.Printf("restored %d persisted answers for session %s", len(restored), session)
	}

	return session, store, restored, nil
}

// readCommands parses JSON lines until EOF, then closes the channel.
func readCommands(r io.Reader, out chan<- userCommand) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var in userCommand
		if err := json.Unmarshal(line, &in); err != nil {
			log.Printf("ignoring malformed command: %v", err)
			continue
		}
		out <- in
	}
}

// handleInput dispatches one stdin command against the loop and prints any
// requested output as a JSON line on stdout.
func handleInput(ctx context.Context, sim *loop.Loop, in userCommand) {
	switch in.Cmd {
	case "answer":
		if in.Value == nil {
			log.Printf("answer requires a value")
			return
		}
		sim.HandleCommand(ctx, loop.Answer{Name: in.Name, Value: *in.Value})
	case "import":
		data, err := os.ReadFile(in.Path)
		if err != nil {
			log.Printf("cannot read %s: %v", in.Path, err)
			return
		}
		sim.HandleCommand(ctx, loop.Import{Data: data})
		if err := sim.CurrentError(); err != nil {
			log.Printf("import rejected: %v", err)
		}
	case "reset":
		sim.HandleCommand(ctx, loop.Reset{})
	case "toggle":
		sim.HandleCommand(ctx, loop.ToggleCategory{Name: in.Category})
	case "export":
		data, err := sim.Export()
		if err != nil {
			log.Printf("export failed: %v", err)
			return
		}
		fmt.Println(string(data))
	case "breakdown":
		printJSON(sim.Breakdown())
	case "control":
		printJSON(sim.Control(in.Name))
	case "status":
		status := map[string]any{"loaded": sim.Loaded()}
		if err := sim.CurrentError(); err != nil {
			status["error"] = err.Error()
		}
		printJSON(status)
	default:
		log.Printf("unknown command %q", in.Cmd)
	}
}

func printJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("cannot encode output: %v", err)
		return
	}
	fmt.Println(string(data))
}
