// Package hooking lets observers attach to simulated hardware without the
// hardware model knowing who is listening.
package hooking

import "reflect"

// HookPos names a site inside a hookable object where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx is what a hook receives when it is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
}

// Hookable defines an object that accept Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// A HookableBase keeps the hook list for types that embed it.
type HookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook register a hook. Registering the same pointer hook twice
// panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

// Only pointer hooks are checked. Other hook types may not be comparable.
func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	if !isPointer(hook) {
		return
	}

	for _, registered := range h.hookList {
		if isPointer(registered) && registered == hook {
			panic("duplicated hook")
		}
	}
}

func isPointer(hook Hook) bool {
	return reflect.TypeOf(hook).Kind() == reflect.Pointer
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
