package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mediconnect/mediconnect/internal/config"
	"github.com/mediconnect/mediconnect/internal/domain/centre"
	"github.com/mediconnect/mediconnect/internal/domain/consultation"
	"github.com/mediconnect/mediconnect/internal/domain/medecin"
	"github.com/mediconnect/mediconnect/internal/domain/patient"
	"github.com/mediconnect/mediconnect/internal/domain/rendezvous"
	"github.com/mediconnect/mediconnect/internal/platform/httpclient"
	"github.com/mediconnect/mediconnect/internal/platform/middleware"
	"github.com/mediconnect/mediconnect/internal/platform/sandbox"
	"github.com/mediconnect/mediconnect/internal/platform/storage"
	"github.com/mediconnect/mediconnect/internal/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediconnect",
		Short: "MediConnect client and sandbox backend",
	}

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(patientCmd())
	rootCmd.AddCommand(medecinCmd())
	rootCmd.AddCommand(rendezvousCmd())
	rootCmd.AddCommand(consultationCmd())
	rootCmd.AddCommand(centreCmd())
	rootCmd.AddCommand(sandboxCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app wires config, durable state, the HTTP client and the resource
// services. Every client-facing command starts from one of these.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	kv      *storage.Store
	session *session.Store

	patients      *patient.Service
	medecins      *medecin.Service
	rendezvous    *rendezvous.Service
	consultations *consultation.Service
	centres       *centre.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	kv, err := storage.Open(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	api := httpclient.New(httpclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Store:   kv,
		OnUnauthorized: func() {
			fmt.Fprintln(os.Stderr, "session expirée, reconnectez-vous avec `mediconnect login`")
		},
		Logger: logger,
	})

	return &app{
		cfg:           cfg,
		logger:        logger,
		kv:            kv,
		session:       session.New(session.DemoDirectory(), kv, session.WithPasswordVerification()),
		patients:      patient.NewService(api),
		medecins:      medecin.NewService(api),
		rendezvous:    rendezvous.NewService(api),
		consultations: consultation.NewService(api),
		centres:       centre.NewService(api),
	}, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// -- Session commands --

func loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Authenticate and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user, err := a.session.Login(args[0], password)
			if err != nil {
				return err
			}
			fmt.Printf("connecté en tant que %s %s (%s)\n", user.Prenom, user.Nom, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func registerCmd() *cobra.Command {
	var (
		nom, prenom, email, password string
		role                         string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user, err := a.session.Register(session.User{
				Nom:    nom,
				Prenom: prenom,
				Email:  email,
				Role:   session.Role(role),
			}, password)
			if err != nil {
				return err
			}
			fmt.Printf("compte créé, connecté en tant que %s %s (%s)\n", user.Prenom, user.Nom, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&nom, "nom", "", "last name")
	cmd.Flags().StringVar(&prenom, "prenom", "", "first name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&role, "role", "patient", "account role (patient|medecin)")
	cmd.MarkFlagRequired("nom")
	cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.session.Logout(); err != nil {
				return err
			}
			fmt.Println("déconnecté")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user := a.session.CurrentUser()
			if user == nil {
				fmt.Println("aucune session active")
				return nil
			}
			return printJSON(user)
		},
	}
}

// -- Patients --

func patientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Manage patients",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			patients, err := a.patients.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(patients)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.patients.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	})

	create := &cobra.Command{
		Use:   "create",
		Short: "Register a patient record",
	}
	var p patient.Patient
	create.Flags().StringVar(&p.Nom, "nom", "", "last name")
	create.Flags().StringVar(&p.Prenom, "prenom", "", "first name")
	create.Flags().StringVar(&p.Email, "email", "", "email address")
	create.Flags().StringVar(&p.Telephone, "telephone", "", "phone number")
	create.Flags().StringVar(&p.Ville, "ville", "", "city")
	create.MarkFlagRequired("nom")
	create.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		created, err := a.patients.Create(cmd.Context(), p)
		if err != nil {
			return err
		}
		return printJSON(created)
	}
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.patients.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("patient supprimé")
			return nil
		},
	})

	return cmd
}

// -- Medecins --

func medecinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medecin",
		Short: "Browse and manage doctors",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			medecins, err := a.medecins.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(medecins)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate ID",
		Short: "Validate a doctor's registration (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := a.medecins.Validate(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(m)
		},
	})

	var (
		lat, lng, rayon float64
		local           bool
	)
	proches := &cobra.Command{
		Use:   "proches",
		Short: "Find available doctors near a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			var searcher medecin.ProximitySearcher
			if local {
				searcher = medecin.NewLocalSearcher(a.medecins)
			} else {
				searcher = medecin.NewRemoteSearcher(a.medecins)
			}
			results, err := searcher.Nearby(cmd.Context(), lat, lng, rayon)
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}
	proches.Flags().Float64Var(&lat, "lat", 0, "latitude")
	proches.Flags().Float64Var(&lng, "lng", 0, "longitude")
	proches.Flags().Float64Var(&rayon, "rayon", 10, "search radius in km")
	proches.Flags().BoolVar(&local, "local", false, "rank client-side instead of calling /medecins/proches")
	proches.MarkFlagRequired("lat")
	proches.MarkFlagRequired("lng")
	cmd.AddCommand(proches)

	return cmd
}

// -- RendezVous --

func rendezvousCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rendezvous",
		Aliases: []string{"rdv"},
		Short:   "Manage appointments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			rdvs, err := a.rendezvous.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(rdvs)
		},
	})

	book := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment (starts pending)",
	}
	var (
		patientID, medecinID        int
		date, heure, motif, rdvType string
	)
	book.Flags().IntVar(&patientID, "patient", 0, "patient id")
	book.Flags().IntVar(&medecinID, "medecin", 0, "doctor id")
	book.Flags().StringVar(&date, "date", "", "appointment date (YYYY-MM-DD)")
	book.Flags().StringVar(&heure, "heure", "", "appointment time (HH:MM)")
	book.Flags().StringVar(&motif, "motif", "", "reason for the visit")
	book.Flags().StringVar(&rdvType, "type", rendezvous.TypePhysique, "physique or teleconsultation")
	book.MarkFlagRequired("patient")
	book.MarkFlagRequired("medecin")
	book.MarkFlagRequired("date")
	book.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		created, err := a.rendezvous.Create(cmd.Context(), rendezvous.RendezVous{
			PatientID:       patientID,
			MedecinID:       medecinID,
			DateRendezVous:  date,
			HeureRendezVous: heure,
			Motif:           motif,
			Type:            rdvType,
		})
		if err != nil {
			return err
		}
		return printJSON(created)
	}
	cmd.AddCommand(book)

	cmd.AddCommand(&cobra.Command{
		Use:   "accept ID",
		Short: "Accept a pending appointment (doctor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transitionRendezVous(cmd, args[0], true)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reject ID",
		Short: "Reject a pending appointment (doctor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transitionRendezVous(cmd, args[0], false)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "video ID",
		Short: "Start the video session of an accepted teleconsultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := a.rendezvous.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			lien, err := a.rendezvous.StartVideo(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Println(lien)
			return nil
		},
	})

	return cmd
}

func transitionRendezVous(cmd *cobra.Command, arg string, accept bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	r, err := a.rendezvous.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	var updated *rendezvous.RendezVous
	if accept {
		updated, err = a.rendezvous.Accept(cmd.Context(), r)
	} else {
		updated, err = a.rendezvous.Reject(cmd.Context(), r)
	}
	if err != nil {
		return err
	}
	return printJSON(updated)
}

// -- Consultations --

func consultationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consultation",
		Short: "Manage consultations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all consultations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			consultations, err := a.consultations.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(consultations)
		},
	})

	terminer := &cobra.Command{
		Use:   "terminer ID",
		Short: "Close a consultation with a diagnosis",
		Args:  cobra.ExactArgs(1),
	}
	var diagnostic, ordonnance string
	terminer.Flags().StringVar(&diagnostic, "diagnostic", "", "diagnosis")
	terminer.Flags().StringVar(&ordonnance, "ordonnance", "", "prescription, if any")
	terminer.MarkFlagRequired("diagnostic")
	terminer.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := a.consultations.Terminer(cmd.Context(), id, diagnostic, ordonnance)
		if err != nil {
			return err
		}
		return printJSON(c)
	}
	cmd.AddCommand(terminer)

	return cmd
}

// -- Centres --

func centreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "centre",
		Short: "Browse health centres",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all health centres",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			centres, err := a.centres.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(centres)
		},
	})

	var lat, lng, rayon float64
	proches := &cobra.Command{
		Use:   "proches",
		Short: "Find health centres near a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			centres, err := a.centres.Nearby(cmd.Context(), lat, lng, rayon)
			if err != nil {
				return err
			}
			return printJSON(centres)
		},
	}
	proches.Flags().Float64Var(&lat, "lat", 0, "latitude")
	proches.Flags().Float64Var(&lng, "lng", 0, "longitude")
	proches.Flags().Float64Var(&rayon, "rayon", 10, "search radius in km")
	proches.MarkFlagRequired("lat")
	proches.MarkFlagRequired("lng")
	cmd.AddCommand(proches)

	return cmd
}

// -- Sandbox --

func sandboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run the demo backend",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the sandbox API server with seeded demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSandbox()
		},
	})

	return cmd
}

func runSandbox() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store := sandbox.NewStore()
	sandbox.Seed(store)
	logger.Info().Msg("seeded demo dataset")

	srv := sandbox.NewServer(store, sandbox.Config{
		JWTSecret: cfg.SandboxJWTSecret,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			BurstSize:         cfg.RateLimitBurst,
		},
		Logger: logger,
	})
	e := srv.NewEcho()

	go func() {
		addr := ":" + cfg.SandboxPort
		logger.Info().Str("addr", addr).Msg("starting sandbox server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down sandbox server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
