// Package cli is the terminal front end: a REPL driving the diary session,
// the access gate, the memories feed and the backup service.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/client/backup"
	"github.com/dmitrijs2005/mooddiary/internal/client/config"
	"github.com/dmitrijs2005/mooddiary/internal/client/diary"
	"github.com/dmitrijs2005/mooddiary/internal/client/gate"
	"github.com/dmitrijs2005/mooddiary/internal/client/memories"
	"github.com/dmitrijs2005/mooddiary/internal/client/models"
	"github.com/dmitrijs2005/mooddiary/internal/client/playback"
	"github.com/dmitrijs2005/mooddiary/internal/client/remote"
	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/journal"
	"github.com/dmitrijs2005/mooddiary/internal/logging"
)

// getSimpleText and getHiddenText are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getHiddenText = GetHiddenText

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// consoleSink satisfies playback.Sink by announcing playback on the
// console. Actual audio output is an external collaborator.
type consoleSink struct{}

func (consoleSink) Start(ref string) error {
	printlnFn("Playing " + ref)
	return nil
}

func (consoleSink) Stop() error {
	printlnFn("Playback stopped")
	return nil
}

type App struct {
	config  *config.Config
	store   remote.Store
	session *diary.Session
	gate    *gate.Gate
	feed    *memories.Feed
	backups *backup.Service
	player  *playback.Session
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	store := remote.NewHTTPStore(c.ServerEndpointAddr, c.RequestTimeout)

	return &App{
		config:  c,
		store:   store,
		session: diary.NewSession(store, log),
		gate:    gate.New(store),
		feed:    memories.NewFeed(store),
		backups: backup.NewService(store),
		player:  playback.NewSession(consoleSink{}),
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	defer a.player.Close()

	printlnFn("Welcome to MoodDiary CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.store.Owner() != ""
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return "(guest)"
	}
	parts := []string{a.store.Owner()}
	if d := a.session.Date(); !d.IsZero() {
		parts = append(parts, models.DateKey(d))
	}
	parts = append(parts, string(a.gate.State()))
	return "(" + strings.Join(parts, " ") + ")"
}

// Register prompts for credentials and creates a new account.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getHiddenText("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.store.Register(ctx, username, password); err != nil {
		if errors.Is(err, common.ErrLoginAlreadyExists) {
			printlnFn("That username is taken")
			return err
		}
		printlnFn("Registration failed: " + err.Error())
		return err
	}
	printlnFn("Success! You can now log in.")
	return nil
}

// Login authenticates, positions the access gate from the persisted secret
// and opens today's entry.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getHiddenText("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.store.Login(ctx, username, password); err != nil {
		printlnFn("Login failed: " + err.Error())
		return err
	}

	a.gate = gate.New(a.store)
	if err := a.gate.Load(ctx); err != nil {
		printlnFn("Loading access gate: " + err.Error())
		return err
	}

	if err := a.OpenDate(ctx, "today"); err != nil {
		return err
	}
	printlnFn("Logged in as " + username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	_ = a.player.Stop()
	a.store.Logout()
	a.gate = gate.New(a.store)
	printlnFn("Logged out")
	return nil
}

// OpenDate opens the entry for the given argument: an ISO date, "today",
// or "prev"/"next" relative to the currently open date.
func (a *App) OpenDate(ctx context.Context, arg string) error {
	var date time.Time
	switch arg {
	case "today":
		date = time.Now()
	case "prev":
		date = a.session.Date().AddDate(0, 0, -1)
	case "next":
		date = a.session.Date().AddDate(0, 0, 1)
	default:
		d, err := models.ParseDateKey(arg)
		if err != nil {
			printlnFn("Expecting a date like 2026-08-29, or today/prev/next")
			return err
		}
		date = d
	}

	if err := a.session.Open(ctx, date); err != nil {
		printlnFn("Opening entry: " + err.Error())
		return err
	}
	return a.Show(ctx)
}

// Show renders the open entry. While the gate is not unlocked only the
// date, the seasonal theme and the calendar are shown; text, mood and
// media stay behind the locked placeholder.
func (a *App) Show(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	date := a.session.Date()
	theme := journal.ThemeFor(date.Month())
	printlnFn(fmt.Sprintf("%s (%s theme)", models.DateKey(date), theme.Name))

	a.showCalendar()

	if !a.gate.ContentVisible() {
		printlnFn("🔒 Content locked. Type 'unlock' to enter your PIN.")
		return nil
	}

	entry := a.session.Entry()
	printlnFn(fmt.Sprintf("Mood: %s %s", entry.Mood.Glyph, entry.Mood.Label))
	if entry.Text == "" {
		printlnFn("(no text yet)")
	} else {
		printlnFn(entry.Text)
	}
	return a.ListMedia(ctx)
}

// showCalendar prints the month index as a date→mood strip. Days without
// an entry are omitted.
func (a *App) showCalendar() {
	idx := a.session.Index()
	if idx == nil || len(idx.Moods) == 0 {
		return
	}
	first, last := idx.Bounds()
	var b strings.Builder
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if label, ok := idx.MoodFor(models.DateKey(d)); ok {
			mood, _ := journal.ByLabel(label)
			fmt.Fprintf(&b, " %02d:%s", d.Day(), mood.Glyph)
		}
	}
	if b.Len() > 0 {
		printlnFn("Calendar:" + b.String())
	}
}

// EditText prompts for the entry text and stores it locally.
func (a *App) EditText(ctx context.Context) error {
	if !a.gate.ContentVisible() {
		printlnFn("🔒 Unlock first")
		return nil
	}
	text, err := getSimpleText(a.reader, "Entry text", os.Stdout)
	if err != nil {
		return err
	}
	a.session.SetText(text)
	printlnFn("Text updated (not saved yet)")
	return nil
}

// PickMood shows the mood catalog and stores the chosen mood locally.
func (a *App) PickMood(ctx context.Context) error {
	if !a.gate.ContentVisible() {
		printlnFn("🔒 Unlock first")
		return nil
	}

	var b strings.Builder
	for _, m := range journal.Moods {
		fmt.Fprintf(&b, " %s %s", m.Glyph, m.Label)
	}
	printlnFn("Moods:" + b.String())

	label, err := getSimpleText(a.reader, "Pick a mood", os.Stdout)
	if err != nil {
		return err
	}
	mood, ok := journal.ByLabel(label)
	if !ok {
		printlnFn("Unknown mood: " + label)
		return nil
	}
	a.session.SetMood(mood)
	printlnFn("Mood set to " + mood.Glyph + " (not saved yet)")
	return nil
}

// AttachPhoto stages an image file for the open entry.
func (a *App) AttachPhoto(ctx context.Context, path string) error {
	return a.attach(path, a.session.StagePhoto)
}

// AttachVoice stages an audio file for the open entry.
func (a *App) AttachVoice(ctx context.Context, path string) error {
	return a.attach(path, a.session.StageRecording)
}

func (a *App) attach(path string, stage func([]byte, string) models.MediaItem) error {
	if !a.gate.ContentVisible() {
		printlnFn("🔒 Unlock first")
		return nil
	}
	data, err := readFile(path)
	if err != nil {
		printlnFn("Reading " + path + ": " + err.Error())
		return err
	}
	item := stage(data, path)
	printlnFn("Staged " + item.ID() + " (save to upload)")
	return nil
}

// ListMedia prints the working media set, staged and committed.
func (a *App) ListMedia(ctx context.Context) error {
	items := a.session.Media()
	if len(items) == 0 {
		return nil
	}
	printlnFn("Media:")
	for _, item := range items {
		state := "committed"
		if item.IsStaged() {
			state = "staged"
		}
		printlnFn(fmt.Sprintf("  %s  %s  %s  %s", item.ID(), item.Kind, state, item.Ref()))
	}
	return nil
}

// Play toggles playback of a committed recording by its media id.
func (a *App) Play(ctx context.Context, id string) error {
	for _, item := range a.session.Media() {
		if item.ID() == id && !item.IsStaged() {
			return a.player.Play(item.Committed.Locator)
		}
	}
	printlnFn("No committed media with id " + id)
	return common.ErrNotFound
}

// DeleteMedia removes one attachment, staged or committed.
func (a *App) DeleteMedia(ctx context.Context, id string) error {
	if err := a.session.DeleteMedia(ctx, id); err != nil {
		printlnFn("Delete failed: " + err.Error())
		return err
	}
	printlnFn("Deleted " + id)
	return nil
}

// Save commits the open entry and reports per-item media outcomes.
func (a *App) Save(ctx context.Context) error {
	report, err := a.session.Save(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSaveInFlight) {
			printlnFn("A save is already running")
			return err
		}
		printlnFn("Save failed: " + err.Error())
		return err
	}

	if failed := report.Failed(); len(failed) > 0 {
		printlnFn(fmt.Sprintf("Saved with %d media failure(s); failed items stay staged for retry:", len(failed)))
		for _, f := range failed {
			printlnFn("  " + f.ID + ": " + f.Err.Error())
		}
		return nil
	}
	printlnFn("Saved")
	return nil
}

// Lock returns the gate to Locked and stops playback.
func (a *App) Lock(ctx context.Context) error {
	_ = a.player.Stop()
	a.gate.Relock()
	printlnFn("Locked")
	return nil
}

// Unlock walks the gate through provisioning or verification, prompting
// for PINs without echo.
func (a *App) Unlock(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	if a.gate.ContentVisible() {
		printlnFn("Already unlocked")
		return nil
	}

	a.gate.Begin()
	if a.gate.State() == gate.StateCreating {
		return a.provisionPin(ctx)
	}

	pin, err := getHiddenText("Enter your 4-digit PIN", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.gate.EnterPin(ctx, pin); err != nil {
		if errors.Is(err, common.ErrPinIncorrect) {
			printlnFn("Incorrect PIN")
		} else {
			printlnFn("Unlock failed: " + err.Error())
		}
		return err
	}
	printlnFn("Unlocked")
	return nil
}

func (a *App) provisionPin(ctx context.Context) error {
	printlnFn("No PIN set yet. Choose one to protect your diary.")

	pin, err := getHiddenText("New 4-digit PIN", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.gate.EnterPin(ctx, pin); err != nil {
		printlnFn("Invalid PIN: " + err.Error())
		return err
	}

	confirm, err := getHiddenText("Confirm PIN", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.gate.EnterPin(ctx, confirm); err != nil {
		if errors.Is(err, common.ErrPinMismatch) {
			printlnFn("PINs did not match; start over with 'unlock'")
		} else {
			printlnFn("Saving PIN failed: " + err.Error())
		}
		return err
	}
	printlnFn("PIN set. Unlocked.")
	return nil
}

// Avatar uploads a profile picture and records its locator.
func (a *App) Avatar(ctx context.Context, path string) error {
	owner := a.store.Owner()
	if owner == "" {
		return common.ErrNotAuthenticated
	}

	data, err := readFile(path)
	if err != nil {
		printlnFn("Reading " + path + ": " + err.Error())
		return err
	}

	key := fmt.Sprintf("%s/avatar-%d", owner, time.Now().UnixMilli())
	locator, err := a.store.UploadBlob(ctx, key, data, "image/jpeg")
	if err != nil {
		printlnFn("Avatar upload failed: " + err.Error())
		return err
	}
	if err := a.store.SetAvatar(ctx, locator); err != nil {
		printlnFn("Saving avatar failed: " + err.Error())
		return err
	}
	printlnFn("Avatar updated")
	return nil
}

// Memories loads the slideshow and walks it with n/p/q.
func (a *App) Memories(ctx context.Context) error {
	if err := a.feed.Load(ctx); err != nil {
		printlnFn("Loading memories: " + err.Error())
		return err
	}
	if a.feed.Len() == 0 {
		printlnFn("No memories yet; save an entry with a photo first")
		return nil
	}

	for {
		item, _ := a.feed.Current()
		printlnFn(fmt.Sprintf("%s %s  %s  %s", item.Mood.Glyph, item.Date, item.Locator, item.Text))

		cmd, err := getSimpleText(a.reader, "(n)ext, (p)rev, (q)uit", os.Stdout)
		if err != nil {
			return err
		}
		switch cmd {
		case "n", "next", "":
			a.feed.Next()
		case "p", "prev":
			a.feed.Prev()
		case "q", "quit":
			return nil
		}
	}
}

// Backup uploads a full JSON snapshot of the diary to blob storage.
func (a *App) Backup(ctx context.Context) error {
	locator, err := a.backups.Run(ctx)
	if err != nil {
		printlnFn("Backup failed: " + err.Error())
		return err
	}
	printlnFn("Backup stored at " + locator)
	return nil
}
