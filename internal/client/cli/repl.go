package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	OpenDate(ctx context.Context, arg string) error
	Show(ctx context.Context) error
	EditText(ctx context.Context) error
	PickMood(ctx context.Context) error
	AttachPhoto(ctx context.Context, path string) error
	AttachVoice(ctx context.Context, path string) error
	ListMedia(ctx context.Context) error
	Play(ctx context.Context, id string) error
	DeleteMedia(ctx context.Context, id string) error
	Save(ctx context.Context) error
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
	Memories(ctx context.Context) error
	Backup(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the MoodDiary CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers log
// and print their own errors. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("md> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: open <date|today|prev|next>, show, text, mood, photo <path>, voice <path>, media, play <id>, delmedia <id>, save, lock, unlock, memories, backup, avatar <path>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "open":
			arg := "today"
			if len(args) > 0 {
				arg = args[0]
			}
			_ = a.OpenDate(ctx, arg)
		case "show":
			_ = a.Show(ctx)
		case "text":
			_ = a.EditText(ctx)
		case "mood":
			_ = a.PickMood(ctx)
		case "photo":
			if len(args) == 0 {
				printlnFn("Usage: photo <path>")
				continue
			}
			_ = a.AttachPhoto(ctx, args[0])
		case "voice":
			if len(args) == 0 {
				printlnFn("Usage: voice <path>")
				continue
			}
			_ = a.AttachVoice(ctx, args[0])
		case "media":
			_ = a.ListMedia(ctx)
		case "play":
			if len(args) == 0 {
				printlnFn("Usage: play <id>")
				continue
			}
			_ = a.Play(ctx, args[0])
		case "delmedia":
			if len(args) == 0 {
				printlnFn("Usage: delmedia <id>")
				continue
			}
			_ = a.DeleteMedia(ctx, args[0])
		case "save":
			_ = a.Save(ctx)
		case "lock":
			_ = a.Lock(ctx)
		case "unlock":
			_ = a.Unlock(ctx)
		case "memories":
			_ = a.Memories(ctx)
		case "backup":
			_ = a.Backup(ctx)
		case "avatar":
			if len(args) == 0 {
				printlnFn("Usage: avatar <path>")
				continue
			}
			_ = a.Avatar(ctx, args[0])
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command: " + cmd)
		}
	}
}
