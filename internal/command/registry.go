package command

import (
	"sort"
	"sync"
)

type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Command)}
}

// RegisterCommand wraps cmd with mws and registers it under its name and aliases.
func (r *Registry) RegisterCommand(cmd Command, mws ...Middleware) {
	cmd = ApplyMiddlewares(cmd, mws...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		r.cmds[a] = cmd
	}
}

func (r *Registry) GetCommand(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// AllCommands returns each registered command once, sorted by name.
func (r *Registry) AllCommands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	list := make([]Command, 0, len(r.cmds))
	for _, cmd := range r.cmds {
		if seen[cmd.Name()] {
			continue
		}
		seen[cmd.Name()] = true
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}
