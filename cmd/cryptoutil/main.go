package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"boilerplate/internal/constants"
	apperrors "boilerplate/internal/errors"
	"boilerplate/internal/logfields"
	"boilerplate/internal/security"
	"boilerplate/internal/security/fernet"
	"boilerplate/internal/versioning"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Exit codes
const (
	exitOK           = 0
	exitInvalidInput = 1
	exitIntegrity    = 2
	exitMismatch     = 3
)

const secretKeyEnv = "CRYPTOUTIL_SECRET_KEY"

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := newApp(stdin, stdout, stderr).Run(args)
	if err == nil {
		return exitOK
	}

	if msg := err.Error(); msg != "" {
		fmt.Fprintln(stderr, msg)
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return exitInvalidInput
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	keyFlag := &cli.StringFlag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "secret key (prefer the environment variable over the command line)",
		EnvVars: []string{secretKeyEnv},
	}

	return &cli.App{
		Name:      "cryptoutil",
		Usage:     "hash, sign and encrypt text with the service's security utilities",
		Version:   versioning.DefaultVersionInfo().String(),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		// Exit codes are computed by run.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "log failures with their error code to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:  "salt",
				Usage: "print a random URL-safe salt",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "length", Aliases: []string{"n"}, Value: constants.DefaultSaltLength, Usage: "number of random bytes"},
				},
				Action: func(c *cli.Context) error {
					salt, err := security.GenerateSalt(c.Int("length"))
					if err != nil {
						return fail(c, err)
					}
					fmt.Fprintln(c.App.Writer, salt)
					return nil
				},
			},
			{
				Name:      "hash",
				Usage:     "hash TEXT into a salt$iterations$hash record",
				ArgsUsage: "TEXT|-",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "salt", Usage: "use this salt instead of a random one"},
					&cli.IntFlag{Name: "iterations", Aliases: []string{"i"}, Value: constants.DefaultHashIterations, Usage: "PBKDF2 iterations"},
				},
				Action: func(c *cli.Context) error {
					text, err := textArg(c, 0, "TEXT")
					if err != nil {
						return err
					}
					record, err := security.HashText(text, security.WithSalt(c.String("salt")), security.WithIterations(c.Int("iterations")))
					if err != nil {
						return fail(c, err)
					}
					fmt.Fprintln(c.App.Writer, record)
					return nil
				},
			},
			{
				Name:      "verify",
				Usage:     "check TEXT against a stored hash record",
				ArgsUsage: "TEXT|- RECORD",
				Action: func(c *cli.Context) error {
					text, err := textArg(c, 0, "TEXT")
					if err != nil {
						return err
					}
					record, err := textArg(c, 1, "RECORD")
					if err != nil {
						return err
					}
					ok, err := security.VerifyHash(text, record)
					if err != nil {
						return fail(c, err)
					}
					if !ok {
						return cli.Exit("mismatch", exitMismatch)
					}
					fmt.Fprintln(c.App.Writer, "match")
					return nil
				},
			},
			{
				Name:      "hmac",
				Usage:     "sign MESSAGE with the secret key",
				ArgsUsage: "MESSAGE|-",
				Flags: []cli.Flag{
					keyFlag,
					&cli.StringFlag{
						Name:  "digest",
						Value: constants.DefaultHMACDigest,
						Usage: "one of " + digestList(),
					},
				},
				Action: func(c *cli.Context) error {
					message, err := textArg(c, 0, "MESSAGE")
					if err != nil {
						return err
					}
					digest, err := security.ParseDigest(c.String("digest"))
					if err != nil {
						return fail(c, err)
					}
					signature, err := security.GenerateHMAC(message, c.String("key"), security.WithDigest(digest))
					if err != nil {
						return fail(c, err)
					}
					fmt.Fprintln(c.App.Writer, signature)
					return nil
				},
			},
			{
				Name:      "encrypt",
				Usage:     "encrypt TEXT into a Fernet token",
				ArgsUsage: "TEXT|-",
				Flags:     []cli.Flag{keyFlag},
				Action: func(c *cli.Context) error {
					text, err := textArg(c, 0, "TEXT")
					if err != nil {
						return err
					}
					token, err := security.EncryptText(text, c.String("key"))
					if err != nil {
						return fail(c, err)
					}
					fmt.Fprintln(c.App.Writer, token)
					return nil
				},
			},
			{
				Name:      "decrypt",
				Usage:     "decrypt a Fernet TOKEN",
				ArgsUsage: "TOKEN|-",
				Flags: []cli.Flag{
					keyFlag,
					&cli.DurationFlag{Name: "ttl", Usage: "reject tokens older than this; 0 accepts any age"},
					&cli.BoolFlag{Name: "issued", Usage: "also print the token's issue time"},
				},
				Action: func(c *cli.Context) error {
					token, err := textArg(c, 0, "TOKEN")
					if err != nil {
						return err
					}
					encrypter := security.NewEncrypter(fernet.Cipher{TTL: c.Duration("ttl")})
					plain, err := encrypter.DecryptText(token, c.String("key"))
					if err != nil {
						return fail(c, err)
					}
					fmt.Fprintln(c.App.Writer, plain)

					if c.Bool("issued") {
						issued, err := issuedAt(token, c.String("key"))
						if err != nil {
							return fail(c, err)
						}
						fmt.Fprintln(c.App.Writer, "issued:", issued.UTC().Format(time.RFC3339))
					}
					return nil
				},
			},
			{
				Name:  "keygen",
				Usage: "print a random Fernet key, usable as a secret",
				Action: func(c *cli.Context) error {
					k, err := fernet.GenerateKey()
					if err != nil {
						return fail(c, err)
					}
					fmt.Fprintln(c.App.Writer, k.Encode())
					return nil
				},
			},
		},
	}
}

// issuedAt reads the creation time of a token sealed under secretKey.
func issuedAt(token, secretKey string) (time.Time, error) {
	k, err := fernet.DecodeKey(string(security.DeriveKey(secretKey)))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", security.ErrIntegrity, err)
	}
	issued, err := fernet.TokenTimestamp(k, token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", security.ErrIntegrity, err)
	}
	return issued, nil
}

// textArg returns positional argument i. "-" reads it from stdin with the
// trailing newline removed.
func textArg(c *cli.Context, i int, name string) (string, error) {
	if c.Args().Len() <= i {
		return "", cli.Exit(fmt.Sprintf("missing %s argument", name), exitInvalidInput)
	}
	arg := c.Args().Get(i)
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(c.App.Reader)
	if err != nil {
		return "", cli.Exit(fmt.Sprintf("failed to read %s from stdin: %v", name, err), exitInvalidInput)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// fail classifies a security error into a user message and exit code.
func fail(c *cli.Context, err error) error {
	appErr := apperrors.FromSecurity(err)

	if c.Bool("debug") {
		logger := apperrors.NewLogger()
		logger.SetOutput(c.App.ErrWriter)
		logger.LogError(appErr, "Command failed", logrus.Fields{logfields.Operation: c.Command.Name})
	}

	code := exitInvalidInput
	switch appErr.Code {
	case apperrors.ErrCodeIntegrity, apperrors.ErrCodeMissingDependency:
		code = exitIntegrity
	}
	return cli.Exit(fmt.Sprintf("%s: %v", apperrors.GetUserMessage(appErr), err), code)
}

func digestList() string {
	names := make([]string, 0, len(security.Digests()))
	for _, d := range security.Digests() {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}
