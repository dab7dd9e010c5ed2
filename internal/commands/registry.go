// Package commands wires command declarations to the argument collectors:
// a command declares the arguments it expects, the registry resolves them
// into specs at registration time, and Dispatch drives the collection
// dialogue before handing the parsed values to the command handler.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aerisDoesCodes/Komugari/internal/arguments"
)

var ErrUnknownCommand = errors.New("commands: unknown command")

// HandlerFunc executes a command once every declared argument has been
// collected. args is keyed by argument key; infinite arguments hold []any.
// The returned string, when non-empty, is sent back to the channel.
type HandlerFunc func(ctx context.Context, conv arguments.Conversation, args map[string]any, ch arguments.PromptChannel) (string, error)

// Command declares a bot command and the inputs it needs.
type Command struct {
	Name        string
	Description string
	Args        []arguments.Declaration
	// PromptLimit caps prompts per argument (per value for infinite
	// arguments); 0 falls back to the registry default.
	PromptLimit int
	Handler     HandlerFunc
}

// Auditor receives dialogue events. The audit logger satisfies this.
type Auditor interface {
	LogEvent(ctx context.Context, eventType string, fields map[string]any) error
}

type registryItem struct {
	cmd   Command
	specs []*arguments.Spec
}

// Registry holds the registered commands with their resolved argument
// specs.
type Registry struct {
	types       arguments.Resolver
	audit       Auditor
	promptLimit int
	defaultWait time.Duration

	mu       sync.RWMutex
	commands map[string]registryItem
}

func NewRegistry(types arguments.Resolver, audit Auditor, defaultPromptLimit int) *Registry {
	return &Registry{
		types:       types,
		audit:       audit,
		promptLimit: defaultPromptLimit,
		commands:    make(map[string]registryItem),
	}
}

// SetDefaultWait sets the reply deadline applied to argument declarations
// that leave Wait at zero. Commands registered before the call keep the
// wait they resolved with.
func (r *Registry) SetDefaultWait(d time.Duration) {
	r.mu.Lock()
	r.defaultWait = d
	r.mu.Unlock()
}

// Register resolves the command's argument declarations into specs. Any
// malformed declaration surfaces here, before the command can ever run.
func (r *Registry) Register(cmd Command) error {
	name := strings.ToLower(strings.TrimSpace(cmd.Name))
	if name == "" {
		return errors.New("commands: command name is required")
	}
	if cmd.Handler == nil {
		return fmt.Errorf("commands: %s: handler is required", name)
	}

	r.mu.RLock()
	defaultWait := r.defaultWait
	r.mu.RUnlock()

	specs := make([]*arguments.Spec, 0, len(cmd.Args))
	seen := make(map[string]struct{}, len(cmd.Args))
	for i, decl := range cmd.Args {
		if decl.Wait == 0 {
			decl.Wait = defaultWait
		}
		spec, err := arguments.New(decl, r.types)
		if err != nil {
			return fmt.Errorf("commands: %s: %w", name, err)
		}
		if _, dup := seen[spec.Key()]; dup {
			return fmt.Errorf("commands: %s: duplicate argument key %q", name, spec.Key())
		}
		seen[spec.Key()] = struct{}{}
		if spec.Infinite() && i != len(cmd.Args)-1 {
			return fmt.Errorf("commands: %s: infinite argument %q must be last", name, spec.Key())
		}
		specs = append(specs, spec)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("commands: command already registered: %s", name)
	}
	cmd.Name = name
	r.commands[name] = registryItem{cmd: cmd, specs: specs}
	return nil
}

// List returns the registered commands sorted by name.
func (r *Registry) List() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.commands))
	for _, item := range r.commands {
		out = append(out, item.cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch collects every declared argument for the named command and runs
// its handler. rest is the invocation text after the command name; tokens
// parsed from it pre-fill the arguments in declaration order, with a
// trailing infinite argument consuming all remaining tokens.
//
// A cancelled collection sends a short notice and skips the handler; that
// is not an error. The error return covers unknown commands, transport
// failures and handler failures.
func (r *Registry) Dispatch(ctx context.Context, conv arguments.Conversation, ch arguments.PromptChannel, name, rest string) (string, error) {
	r.mu.RLock()
	item, ok := r.commands[strings.ToLower(strings.TrimSpace(name))]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	limit := item.cmd.PromptLimit
	if limit <= 0 {
		limit = r.promptLimit
	}

	collectionID := uuid.NewString()
	r.emit(ctx, "collect.start", map[string]any{
		"collection_id": collectionID,
		"command":       item.cmd.Name,
		"user_id":       conv.UserID,
		"channel_id":    conv.ChannelID,
	})

	tokens := Tokenize(rest)
	values := make(map[string]any, len(item.specs))
	next := 0
	for _, spec := range item.specs {
		var res arguments.Result
		var err error
		if spec.Infinite() {
			res, err = spec.ObtainInfinite(ctx, ch, conv, tokens[next:], limit)
			next = len(tokens)
		} else {
			raw := ""
			if next < len(tokens) {
				raw = tokens[next]
				next++
			}
			res, err = spec.Obtain(ctx, ch, conv, raw, limit)
		}
		r.emitExchange(ctx, collectionID, item.cmd.Name, res)
		if err != nil {
			r.emitEnd(ctx, collectionID, item.cmd.Name, spec.Key(), "error")
			return "", err
		}
		if res.Cancelled != arguments.CancelNone {
			r.emitEnd(ctx, collectionID, item.cmd.Name, spec.Key(), string(res.Cancelled))
			if _, serr := ch.Send(ctx, "Cancelled command."); serr != nil {
				return "", fmt.Errorf("commands: %s: send cancellation notice: %w", item.cmd.Name, serr)
			}
			return "", nil
		}
		values[spec.Key()] = res.Value
	}

	reply, err := item.cmd.Handler(ctx, conv, values, ch)
	if err != nil {
		r.emitEnd(ctx, collectionID, item.cmd.Name, "", "error")
		return "", fmt.Errorf("commands: %s: %w", item.cmd.Name, err)
	}
	r.emitEnd(ctx, collectionID, item.cmd.Name, "", "ok")
	return reply, nil
}

func (r *Registry) emitExchange(ctx context.Context, collectionID, command string, res arguments.Result) {
	for _, p := range res.Prompts {
		r.emit(ctx, "prompt.sent", map[string]any{
			"collection_id": collectionID,
			"command":       command,
			"message_id":    p.ID,
		})
	}
	for _, a := range res.Answers {
		r.emit(ctx, "reply.received", map[string]any{
			"collection_id": collectionID,
			"command":       command,
			"message_id":    a.ID,
			"user_id":       a.UserID,
		})
	}
}

func (r *Registry) emitEnd(ctx context.Context, collectionID, command, argKey, outcome string) {
	fields := map[string]any{
		"collection_id": collectionID,
		"command":       command,
		"outcome":       outcome,
	}
	if argKey != "" {
		fields["argument"] = argKey
	}
	r.emit(ctx, "collect.end", fields)
}

func (r *Registry) emit(ctx context.Context, eventType string, fields map[string]any) {
	if r.audit == nil {
		return
	}
	_ = r.audit.LogEvent(ctx, eventType, fields)
}
