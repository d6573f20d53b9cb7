package lua

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/mbt/pkg/ports"
	glua "github.com/yuin/gopher-lua"
)

// Environment is a Lua backed data space.
// An Environment is not safe for concurrent use.
type Environment struct {
	L        *glua.LState
	out      io.Writer
	baseline map[string]bool
}

// Option configures the Environment.
type Option func(*Environment)

// WithOutput sets the initial sink for print().
func WithOutput(w io.Writer) Option {
	return func(e *Environment) {
		e.out = w
	}
}

// snapshot holds deep copies of the user globals.
type snapshot map[string]glua.LValue

var libs = []struct {
	name string
	fn   glua.LGFunction
}{
	{glua.BaseLibName, glua.OpenBase},
	{glua.TabLibName, glua.OpenTable},
	{glua.StringLibName, glua.OpenString},
	{glua.MathLibName, glua.OpenMath},
}

// New creates an Environment with the base, table, string and math libraries loaded.
func New(opts ...Option) (*Environment, error) {
	e := &Environment{
		L:   glua.NewState(glua.Options{SkipOpenLibs: true}),
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, lib := range libs {
		if err := e.L.CallByParam(glua.P{
			Fn:      e.L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, glua.LString(lib.name)); err != nil {
			e.L.Close()
			return nil, fmt.Errorf("failed to open lua library %s: %w", lib.name, err)
		}
	}
	e.L.SetGlobal("print", e.L.NewFunction(e.print))

	e.baseline = make(map[string]bool)
	e.L.G.Global.ForEach(func(k, _ glua.LValue) {
		e.baseline[k.String()] = true
	})
	return e, nil
}

var _ ports.Environment = (*Environment)(nil)

// Close releases the VM.
func (e *Environment) Close() {
	e.L.Close()
}

func (e *Environment) print(L *glua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(e.out, strings.Join(parts, "\t"))
	return 0
}

// SetOutput redirects print() and returns the previous sink.
func (e *Environment) SetOutput(w io.Writer) io.Writer {
	if w == nil {
		w = io.Discard
	}
	prev := e.out
	e.out = w
	return prev
}

// Exec runs a Lua chunk.
func (e *Environment) Exec(script string) error {
	return e.L.DoString(script)
}

// Eval evaluates an expression and renders its value.
// Statements that do not compile as an expression are executed instead and yield "".
func (e *Environment) Eval(expr string) (string, error) {
	v, err := e.value(expr)
	if err == errNotExpression {
		if err := e.Exec(expr); err != nil {
			return "", err
		}
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return render(v), nil
}

// Test evaluates an expression with Lua truthiness: only nil and false are false.
func (e *Environment) Test(expr string) (bool, error) {
	v, err := e.value(expr)
	if err == errNotExpression {
		return false, fmt.Errorf("not an expression: %q", expr)
	}
	if err != nil {
		return false, err
	}
	return glua.LVAsBool(v), nil
}

var errNotExpression = errors.New("not an expression")

func (e *Environment) value(expr string) (glua.LValue, error) {
	fn, err := e.L.LoadString("return " + expr)
	if err != nil {
		return nil, errNotExpression
	}
	e.L.Push(fn)
	if err := e.L.PCall(0, 1, nil); err != nil {
		return nil, err
	}
	v := e.L.Get(-1)
	e.L.Pop(1)
	return v, nil
}

// Bindings returns the user globals, excluding functions.
func (e *Environment) Bindings() map[string]string {
	out := make(map[string]string)
	e.eachUserGlobal(func(name string, v glua.LValue) {
		if v.Type() == glua.LTFunction {
			return
		}
		out[name] = render(v)
	})
	return out
}

// Lookup returns the rendered value of a user global. Undefined globals, the
// libraries loaded by New and functions are not found, as in Bindings.
func (e *Environment) Lookup(name string) (string, bool) {
	if e.baseline[name] {
		return "", false
	}
	v := e.L.GetGlobal(name)
	if v == glua.LNil || v.Type() == glua.LTFunction {
		return "", false
	}
	return render(v), true
}

// Snapshot deep-copies the user globals.
func (e *Environment) Snapshot() ports.Snapshot {
	s := make(snapshot)
	e.eachUserGlobal(func(name string, v glua.LValue) {
		s[name] = e.copyValue(v, map[*glua.LTable]*glua.LTable{})
	})
	return s
}

// Restore replaces the user globals with a copy of the snapshot.
// The snapshot stays valid and may be restored again.
func (e *Environment) Restore(s ports.Snapshot) error {
	snap, ok := s.(snapshot)
	if !ok {
		return fmt.Errorf("lua: foreign snapshot %T", s)
	}

	var stale []string
	e.eachUserGlobal(func(name string, _ glua.LValue) {
		if _, kept := snap[name]; !kept {
			stale = append(stale, name)
		}
	})
	for _, name := range stale {
		e.L.SetGlobal(name, glua.LNil)
	}
	for name, v := range snap {
		e.L.SetGlobal(name, e.copyValue(v, map[*glua.LTable]*glua.LTable{}))
	}
	return nil
}

func (e *Environment) eachUserGlobal(fn func(name string, v glua.LValue)) {
	e.L.G.Global.ForEach(func(k, v glua.LValue) {
		name, ok := k.(glua.LString)
		if !ok || e.baseline[string(name)] {
			return
		}
		fn(string(name), v)
	})
}

func (e *Environment) copyValue(v glua.LValue, seen map[*glua.LTable]*glua.LTable) glua.LValue {
	tbl, ok := v.(*glua.LTable)
	if !ok {
		return v
	}
	if c, ok := seen[tbl]; ok {
		return c
	}
	c := e.L.NewTable()
	seen[tbl] = c
	tbl.ForEach(func(k, v glua.LValue) {
		c.RawSet(e.copyValue(k, seen), e.copyValue(v, seen))
	})
	c.Metatable = tbl.Metatable
	return c
}

// render formats a value; tables are rendered with sorted keys so labels are stable.
func render(v glua.LValue) string {
	return renderDepth(v, 0)
}

func renderDepth(v glua.LValue, depth int) string {
	tbl, ok := v.(*glua.LTable)
	if !ok {
		return v.String()
	}
	if depth > 8 {
		return "{...}"
	}
	var parts []string
	tbl.ForEach(func(k, v glua.LValue) {
		parts = append(parts, k.String()+"="+renderDepth(v, depth+1))
	})
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
