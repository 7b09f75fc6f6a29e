package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/platformoftrust/exchange-go/internal/hooklistener"
	"github.com/platformoftrust/exchange-go/pkg/exchange"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is overridden at release time via -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile          string
	baseURL          string
	authURL          string
	clientID         string
	clientSecret     string
	keyStorePath     string
	keyStorePassword string
	node             string
	verbose          bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "potx",
	Short: "Platform of Trust exchange CLI",
	Long: `potx is the command-line interface for the Platform of Trust
document exchange. It manages dossiers, signed records, webhook
registrations and public keys on behalf of a node.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(home + "/.potx")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("POTX")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		fill := func(target *string, key string) {
			if *target == "" {
				*target = viper.GetString(key)
			}
		}
		fill(&baseURL, "base_url")
		fill(&authURL, "auth_url")
		fill(&clientID, "client_id")
		fill(&clientSecret, "client_secret")
		fill(&keyStorePath, "keystore_path")
		fill(&keyStorePassword, "keystore_password")
		fill(&node, "node")
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.potx/config.yaml)")
	pf.StringVar(&baseURL, "base-url", "", "platform API base URL")
	pf.StringVar(&authURL, "auth-url", "", "authorization server base URL")
	pf.StringVar(&clientID, "client-id", "", "OAuth2 client id")
	pf.StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret")
	pf.StringVar(&keyStorePath, "keystore", "", "PKCS#12 keystore holding the client certificate")
	pf.StringVar(&keyStorePassword, "keystore-password", "", "keystore password")
	pf.StringVar(&node, "node", "", "6-digit node to act on behalf of")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(dossierCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newSession opens and authenticates a session from the resolved
// configuration.
func newSession(ctx context.Context) (*exchange.Session, error) {
	s, err := exchange.NewSession(exchange.SessionConfig{
		BaseURL:          baseURL,
		AuthURL:          authURL,
		ClientID:         clientID,
		ClientSecret:     clientSecret,
		KeyStorePath:     keyStorePath,
		KeyStorePassword: keyStorePassword,
	},
		exchange.WithLogger(newLogger()),
		exchange.WithApplication("potx", version),
	)
	if err != nil {
		return nil, err
	}
	if err := s.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return s, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ── auth ─────────────────────────────────────────────────────────────────────

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Verify the configured credentials and print the session subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Authenticated.\nSub: %s\n", s.Sub())
		return nil
	},
}

// ── dossier ──────────────────────────────────────────────────────────────────

var dossierCmd = &cobra.Command{
	Use:   "dossier",
	Short: "Manage dossiers",
}

var dossierLimit int

func init() {
	dossierCmd.AddCommand(dossierCreateCmd)
	dossierCmd.AddCommand(dossierFetchCmd)
	dossierCmd.AddCommand(dossierListCmd)
	dossierCmd.AddCommand(dossierAddNodeCmd)

	dossierListCmd.Flags().IntVar(&dossierLimit, "limit", 100, "page size")
}

var dossierCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new dossier",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		d := exchange.NewDossier(s)
		if _, err := d.Create(cmd.Context(), node); err != nil {
			return fmt.Errorf("create dossier: %w", err)
		}
		fmt.Printf("Dossier: %s\nCreated: %s\n", d.ResourceUUID, d.CreationDate.Format(time.RFC3339))
		return nil
	},
}

var dossierFetchCmd = &cobra.Command{
	Use:   "fetch <dossier-uuid>",
	Short: "Fetch a dossier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		d := exchange.NewDossierFromUUID(s, args[0])
		if _, err := d.Fetch(cmd.Context(), node); err != nil {
			return fmt.Errorf("fetch dossier: %w", err)
		}
		return printJSON(map[string]any{
			"resourceUuid": d.ResourceUUID,
			"nodes":        d.Nodes,
			"sub":          d.Sub,
			"creationDate": d.CreationDate,
		})
	},
}

var dossierListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dossiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		dl := exchange.NewDossierList(s)
		if err := dl.Filters().SetLimit(dossierLimit); err != nil {
			return err
		}
		items, err := dl.Fetch(cmd.Context(), node)
		if err != nil {
			return fmt.Errorf("list dossiers: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UUID\tNODES\tCREATED")
		for _, d := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				d.ResourceUUID,
				strings.Join(d.Nodes, ","),
				d.CreationDate.Format(time.RFC3339),
			)
		}
		return w.Flush()
	},
}

var dossierAddNodeCmd = &cobra.Command{
	Use:   "add-node <dossier-uuid> <node>",
	Short: "Grant another node access to a dossier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		d := exchange.NewDossierFromUUID(s, args[0])
		if _, err := d.AddNode(cmd.Context(), args[1], node); err != nil {
			return fmt.Errorf("add node: %w", err)
		}
		fmt.Printf("Nodes: %s\n", strings.Join(d.Nodes, ", "))
		return nil
	},
}

// ── record ───────────────────────────────────────────────────────────────────

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Create, send and confirm signed records",
}

var (
	recordDossier      string
	recordMessageFile  string
	recordMessageType  string
	recordReceiver     string
	recordReceiverCode string
	recordSchemaVer    string
	recordPublicKeyID  string
	recordSenderName   string
	recordReceiverName string
	recordStatusFilter string
	recordLimit        int
	waitRetries        int
	waitInterval       time.Duration
)

func init() {
	recordCmd.AddCommand(recordSendCmd)
	recordCmd.AddCommand(recordFetchCmd)
	recordCmd.AddCommand(recordListCmd)
	recordCmd.AddCommand(recordConfirmCmd)
	recordCmd.AddCommand(recordWaitCmd)

	sf := recordSendCmd.Flags()
	sf.StringVar(&recordDossier, "dossier", "", "dossier UUID (created when empty)")
	sf.StringVar(&recordMessageFile, "message-file", "", "file holding the message payload")
	sf.StringVar(&recordMessageType, "message-type", "", "message type of the request schema")
	sf.StringVar(&recordReceiver, "receiver", "", "receiving node")
	sf.StringVar(&recordReceiverCode, "receiver-code", "", "receiver code of the request schema")
	sf.StringVar(&recordSchemaVer, "schema-version", "", "schema version of the request schema")
	sf.StringVar(&recordPublicKeyID, "public-key", "", "UUID of the registered public key")
	sf.StringVar(&recordSenderName, "sender-name", "", "sender display name")
	sf.StringVar(&recordReceiverName, "receiver-name", "", "receiver display name")
	for _, f := range []string{"message-file", "message-type", "receiver", "schema-version", "public-key"} {
		_ = recordSendCmd.MarkFlagRequired(f)
	}

	recordListCmd.Flags().StringVar(&recordDossier, "dossier", "", "restrict to one dossier")
	recordListCmd.Flags().StringVar(&recordStatusFilter, "status", "", "filter on record status")
	recordListCmd.Flags().IntVar(&recordLimit, "limit", 100, "page size")

	recordWaitCmd.Flags().StringVar(&recordStatusFilter, "status", exchange.StatusNew, "status to wait for")
	recordWaitCmd.Flags().StringVar(&recordMessageType, "message-type", "", "filter on message type")
	recordWaitCmd.Flags().IntVar(&waitRetries, "retries", 30, "additional attempts after the first")
	recordWaitCmd.Flags().DurationVar(&waitInterval, "interval", 10*time.Second, "pause between attempts")
}

var recordSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Create, sign and send a record",
	Long: `Send reads the message payload from --message-file, signs it with the
keystore's private key, creates the record inside the dossier and
triggers delivery. Without --dossier a fresh dossier is created first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession(ctx)
		if err != nil {
			return err
		}

		message, err := os.ReadFile(recordMessageFile)
		if err != nil {
			return fmt.Errorf("read message file: %w", err)
		}

		dossierUUID := recordDossier
		if dossierUUID == "" {
			d := exchange.NewDossier(s)
			if _, err := d.Create(ctx, node); err != nil {
				return fmt.Errorf("create dossier: %w", err)
			}
			dossierUUID = d.ResourceUUID
			fmt.Printf("Dossier: %s\n", dossierUUID)
		}

		r := exchange.NewRecord(s, dossierUUID)
		r.Message = string(message)
		r.PublicKeyID = recordPublicKeyID
		r.Header = &exchange.RecordHeader{
			RequestVersion: "1.0",
			Receiver:       recordReceiver,
			RequestSchema: exchange.RequestSchema{
				MessageType:   recordMessageType,
				SchemaVersion: recordSchemaVer,
				ReceiverCode:  recordReceiverCode,
				ContentType:   exchange.ContentTypeXML,
				Environment:   exchange.EnvironmentProduction,
			},
		}
		r.Miscellaneous = &exchange.Miscellaneous{
			SenderName:   recordSenderName,
			ReceiverName: recordReceiverName,
			SendingApplication: exchange.SendingApplication{
				Name:      "potx",
				Version:   version,
				Timestamp: time.Now().UTC(),
			},
		}

		if err := r.SignMessage(); err != nil {
			return fmt.Errorf("sign message: %w", err)
		}
		if _, err := r.Create(ctx, node); err != nil {
			return fmt.Errorf("create record: %w", err)
		}
		if _, err := r.Send(ctx, node); err != nil {
			return fmt.Errorf("send record: %w", err)
		}

		fmt.Printf("Record:  %s\nSent to: %s\n", r.ResourceUUID, recordReceiver)
		return nil
	},
}

var recordFetchCmd = &cobra.Command{
	Use:   "fetch <dossier-uuid> <record-uuid>",
	Short: "Fetch a record and print its message payload",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		r := exchange.NewRecordFromUUID(s, args[0], args[1])
		if _, err := r.Fetch(cmd.Context(), node); err != nil {
			return fmt.Errorf("fetch record: %w", err)
		}

		fmt.Printf("Record: %s\n", r.ResourceUUID)
		if r.Status != nil {
			fmt.Printf("Status: %s\n", r.Status.Value)
		}
		if r.Header != nil {
			fmt.Printf("Type:   %s\n", r.Header.RequestSchema.MessageType)
		}
		fmt.Println()
		fmt.Println(r.Message)
		return nil
	},
}

var recordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records, platform-wide or per dossier",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}

		var rl *exchange.RecordList
		if recordDossier == "" {
			rl = exchange.NewRecordList(s)
		} else {
			rl = exchange.NewDossierRecordList(s, recordDossier)
		}
		if err := rl.Filters().SetLimit(recordLimit); err != nil {
			return err
		}
		if err := rl.Filters().SetStatus(recordStatusFilter); err != nil {
			return err
		}

		items, err := rl.Fetch(cmd.Context(), node)
		if err != nil {
			return fmt.Errorf("list records: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UUID\tDOSSIER\tTYPE\tSTATUS\tCREATED")
		for _, r := range items {
			status, msgType := "", ""
			if r.Status != nil {
				status = r.Status.Value
			}
			if r.Header != nil {
				msgType = r.Header.RequestSchema.MessageType
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.ResourceUUID, r.DossierUUID, msgType, status,
				r.CreationDate.Format(time.RFC3339),
			)
		}
		return w.Flush()
	},
}

var recordConfirmCmd = &cobra.Command{
	Use:   "confirm <dossier-uuid> <record-uuid>",
	Short: "Confirm a received record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		r := exchange.NewRecordFromUUID(s, args[0], args[1])
		if _, err := r.Confirm(cmd.Context(), node); err != nil {
			return fmt.Errorf("confirm record: %w", err)
		}
		fmt.Println("Confirmed.")
		return nil
	},
}

var recordWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Poll until a matching record arrives",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession(ctx)
		if err != nil {
			return err
		}

		rl := exchange.NewRecordList(s)
		if err := rl.Filters().SetStatus(recordStatusFilter); err != nil {
			return err
		}
		if recordMessageType != "" {
			if err := rl.Filters().SetMessageType(recordMessageType); err != nil {
				return err
			}
		}

		items, err := rl.WaitForMessage(ctx, waitRetries, waitInterval, node)
		if err != nil {
			return fmt.Errorf("wait for record: %w", err)
		}
		if len(items) == 0 {
			return fmt.Errorf("no matching record arrived within %d attempts", waitRetries+1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UUID\tDOSSIER\tSTATUS")
		for _, r := range items {
			status := ""
			if r.Status != nil {
				status = r.Status.Value
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ResourceUUID, r.DossierUUID, status)
		}
		return w.Flush()
	},
}

// ── hook ─────────────────────────────────────────────────────────────────────

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage webhook registrations",
}

var (
	hookURL          string
	hookNodes        []string
	hookMessageTypes []string
	listenAddr       string
	listenBuffer     int
)

func init() {
	hookCmd.AddCommand(hookCreateCmd)
	hookCmd.AddCommand(hookUpdateCmd)
	hookCmd.AddCommand(hookListCmd)
	hookCmd.AddCommand(hookDeleteCmd)
	hookCmd.AddCommand(hookListenCmd)

	hookCreateCmd.Flags().StringVar(&hookURL, "url", "", "delivery URL")
	hookCreateCmd.Flags().StringSliceVar(&hookNodes, "nodes", nil, "nodes the hook listens for")
	hookCreateCmd.Flags().StringSliceVar(&hookMessageTypes, "message-types", nil, "message types to deliver (all when empty)")
	_ = hookCreateCmd.MarkFlagRequired("url")
	_ = hookCreateCmd.MarkFlagRequired("nodes")

	hookUpdateCmd.Flags().StringVar(&hookURL, "url", "", "new delivery URL")
	_ = hookUpdateCmd.MarkFlagRequired("url")

	hookListenCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "listen address")
	hookListenCmd.Flags().IntVar(&listenBuffer, "buffer", 64, "delivery buffer size")
}

var hookCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a webhook",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		h := exchange.NewHook(s)
		h.URL = hookURL
		h.Nodes = hookNodes
		h.MessageTypes = hookMessageTypes
		if _, err := h.Create(cmd.Context(), node); err != nil {
			return fmt.Errorf("create hook: %w", err)
		}
		fmt.Printf("Hook: %s\n", h.ResourceUUID)
		return nil
	},
}

var hookUpdateCmd = &cobra.Command{
	Use:   "update <hook-uuid>",
	Short: "Update a webhook registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession(ctx)
		if err != nil {
			return err
		}
		h := exchange.NewHookFromUUID(s, args[0])
		if _, err := h.Fetch(ctx, node); err != nil {
			return fmt.Errorf("fetch hook: %w", err)
		}
		h.URL = hookURL
		if _, err := h.Update(ctx, node); err != nil {
			return fmt.Errorf("update hook: %w", err)
		}
		fmt.Printf("Hook %s now delivers to %s\n", h.ResourceUUID, h.URL)
		return nil
	},
}

var hookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List webhook registrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		hl := exchange.NewHookList(s)
		items, err := hl.Fetch(cmd.Context(), node)
		if err != nil {
			return fmt.Errorf("list hooks: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UUID\tURL\tNODES\tMESSAGE TYPES")
		for _, h := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				h.ResourceUUID, h.URL,
				strings.Join(h.Nodes, ","),
				strings.Join(h.MessageTypes, ","),
			)
		}
		return w.Flush()
	},
}

var hookDeleteCmd = &cobra.Command{
	Use:   "delete <hook-uuid>",
	Short: "Delete a webhook registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		h := exchange.NewHookFromUUID(s, args[0])
		if _, err := h.Delete(cmd.Context(), node); err != nil {
			return fmt.Errorf("delete hook: %w", err)
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var hookListenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run a local endpoint that receives hook deliveries",
	Long: `Listen starts an HTTP server on --addr and prints every delivery the
platform pushes to it. Register its public URL with "potx hook create"
first. The server exposes /healthz and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		srv := hooklistener.New(hooklistener.Config{
			Addr:       listenAddr,
			BufferSize: listenBuffer,
		}, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			for d := range srv.Deliveries() {
				fmt.Printf("%s  dossier=%s record=%s type=%s status=%s\n",
					d.ReceivedAt.Format(time.RFC3339),
					d.DossierUUID, d.RecordUUID, d.MessageType, d.Status,
				)
			}
		}()

		fmt.Printf("Listening on %s\n", listenAddr)
		return srv.Run(ctx)
	},
}

// ── key ──────────────────────────────────────────────────────────────────────

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage registered public keys",
}

var keyAlgorithm string

func init() {
	keyCmd.AddCommand(keyRegisterCmd)
	keyCmd.AddCommand(keyListCmd)
	keyCmd.AddCommand(keyAlgorithmsCmd)

	keyRegisterCmd.Flags().StringVar(&keyAlgorithm, "algorithm", "SHA256withRSA", "signature algorithm")
}

var keyRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the keystore's public key with the platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		pemStr, err := s.PublicKeyPEM()
		if err != nil {
			return err
		}

		pk := exchange.NewPublicKey(s)
		pk.Algorithm = keyAlgorithm
		pk.KeyMaterial = pemStr
		if _, err := pk.Create(cmd.Context(), node); err != nil {
			return fmt.Errorf("register public key: %w", err)
		}
		fmt.Printf("Public key: %s\n", pk.ResourceUUID)
		return nil
	},
}

var keyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered public keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		pl := exchange.NewPublicKeyList(s)
		items, err := pl.Fetch(cmd.Context(), node)
		if err != nil {
			return fmt.Errorf("list public keys: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UUID\tNODE\tALGORITHM")
		for _, pk := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", pk.ResourceUUID, pk.Node, pk.Algorithm)
		}
		return w.Flush()
	},
}

var keyAlgorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the signature algorithms the platform accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		algos, err := exchange.PublicKeyAlgorithms(cmd.Context(), s, node)
		if err != nil {
			return fmt.Errorf("list algorithms: %w", err)
		}
		for _, a := range algos {
			fmt.Println(a)
		}
		return nil
	},
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the potx version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("potx %s\n", version)
	},
}
