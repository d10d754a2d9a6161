package setting

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/notify"
	"github.com/dshills/menuconf/internal/setting/bounds"
)

func TestSetFromText_BoolExactMatch(t *testing.T) {
	var b bool
	changedCalls := 0
	s := &Setting{Kind: Bool, Name: "b", Value: NewScalar(&b, false), OnChange: func(*Setting) { changedCalls++ }}

	require.NoError(t, SetFromText(nil, s, "true"))
	assert.True(t, b)
	assert.Equal(t, 1, changedCalls)

	b = false
	err := SetFromText(nil, s, "TRUE")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.False(t, b, "value unchanged")
	assert.Equal(t, 1, changedCalls, "no change handler on failure")

	require.NoError(t, SetFromText(nil, s, "false"))
	assert.False(t, b)
}

func TestSetFromText_Int(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		wrap  bool
		want  int
		isErr bool
	}{
		{"plain", "7", false, 7, false},
		{"prefix", "  12px", false, 12, false},
		{"negative", "-3", false, -3, false},
		{"above clamps", "99", false, 20, false},
		{"above wraps", "99", true, -5, false},
		{"below clamps", "-50", false, -5, false},
		{"below wraps", "-50", true, 20, false},
		{"garbage", "abc", false, 4, true},
		{"empty", "", false, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := 4
			s := &Setting{
				Kind:  Int,
				Name:  "i",
				Value: NewScalar(&v, 0),
				Range: bounds.NewRange(-5, 20, 1),
				Flags: FlagHasRange,
			}
			err := SetFromText(&Env{Prefs: prefs(tt.wrap)}, s, tt.text)
			if tt.isErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestSetFromText_IntWithoutRange(t *testing.T) {
	v := 0
	s := &Setting{Kind: Int, Value: NewScalar(&v, 0), Range: bounds.NewRange(0, 10, 1)}
	require.NoError(t, SetFromText(nil, s, "500"))
	assert.Equal(t, 500, v)
}

func TestSetFromText_Uint(t *testing.T) {
	var u uint = 3
	s := uintSetting(&u, 0, 100)

	require.NoError(t, SetFromText(nil, s, "+42"))
	assert.Equal(t, uint(42), u)

	err := SetFromText(nil, s, "-1")
	assert.ErrorIs(t, err, strconv.ErrRange)
	assert.Equal(t, uint(42), u)

	require.NoError(t, SetFromText(nil, s, "1000"))
	assert.Equal(t, uint(100), u)
}

func TestSetFromText_Hex(t *testing.T) {
	tests := []struct {
		text string
		want uint
	}{
		{"ff", 0xff},
		{"#00ff00", 0x00ff00},
		{"0x1A", 0x1a},
		{"0000001f (31)", 0x1f},
	}

	for _, tt := range tests {
		var u uint
		s := &Setting{Kind: Hex, Name: "h", Value: NewScalar(&u, 0)}
		require.NoError(t, SetFromText(nil, s, tt.text), tt.text)
		assert.Equal(t, tt.want, u, tt.text)
	}

	var u uint = 5
	s := &Setting{Kind: Hex, Name: "h", Value: NewScalar(&u, 0)}
	assert.Error(t, SetFromText(nil, s, "#zz"))
	assert.Equal(t, uint(5), u)
}

func TestSetFromText_SizeAndFloat(t *testing.T) {
	var sz uint64
	size := &Setting{Kind: Size, Value: NewScalar(&sz, 0)}
	require.NoError(t, SetFromText(nil, size, "18446744073709551615"))
	assert.Equal(t, ^uint64(0), sz)

	f := 0.0
	fl := &Setting{Kind: Float, Value: NewScalar(&f, 0), Range: bounds.NewRange(0, 2, 0.1), Flags: FlagHasRange}
	require.NoError(t, SetFromText(nil, fl, "1.25x"))
	assert.InDelta(t, 1.25, f, 1e-12)
	require.NoError(t, SetFromText(nil, fl, "1e1"))
	assert.InDelta(t, 2.0, f, 1e-12)
	require.NoError(t, SetFromText(nil, fl, ".5"))
	assert.InDelta(t, 0.5, f, 1e-12)
	assert.Error(t, SetFromText(nil, fl, "."))
}

func TestSetFromText_StringTruncation(t *testing.T) {
	var str string
	s := &Setting{Kind: String, Value: NewText(&str, 5, "")}

	require.NoError(t, SetFromText(nil, s, "abcdefgh"))
	assert.Equal(t, "abcde", str)

	require.NoError(t, SetFromText(nil, s, "héllo"))
	assert.Equal(t, "héll", str, "multi-byte rune not split")

	unlimited := &Setting{Kind: Path, Value: NewText(&str, 0, "")}
	require.NoError(t, SetFromText(nil, unlimited, "~/x"))
	assert.Equal(t, "~/x", str, "no expansion on set")
}

func TestSetFromText_Bind(t *testing.T) {
	b := key.Unbound()
	s := &Setting{Kind: Bind, Value: NewBinding(&b, key.Unbound())}

	require.NoError(t, SetFromText(nil, s, "<C-s>"))
	assert.Equal(t, "<C-s>", b.String())

	assert.Error(t, SetFromText(nil, s, "<Q-q>"))
	assert.Equal(t, "<C-s>", b.String())
}

func TestSetFromText_Structural(t *testing.T) {
	assert.ErrorIs(t, SetFromText(nil, &Setting{Kind: Group}, "x"), ErrNotSettable)
	assert.ErrorIs(t, SetFromText(nil, nil, "x"), ErrNilSetting)
}

func TestSetFromText_PublishesChange(t *testing.T) {
	sink := &changes{}
	v := 1
	s := &Setting{Kind: Int, Name: "speed", Group: "Input", Value: NewScalar(&v, 0)}
	env := &Env{Changes: sink}

	require.NoError(t, SetFromText(env, s, "2"))
	require.NoError(t, SetFromText(env, s, "2"))

	require.Len(t, sink.got, 1, "unchanged value publishes nothing")
	assert.Equal(t, notify.Change{Path: "Input/speed", Kind: notify.KindSet, Old: "1", New: "2", Source: "text"}, sink.got[0])
}

// Every kind: reset followed by get yields exactly the default.
func TestResetToDefault_AllKinds(t *testing.T) {
	var (
		b   = true
		i   = 9
		u   uint
		h   uint
		sz  uint64
		f   = 3.3
		str = "x"
		p   = "/a"
		d   = "/b"
		opt = "one"
		bnd = key.Unbound()
	)
	defBind := key.FromEvent(key.MustParse("F5"))

	settings := []*Setting{
		{Kind: Bool, Value: NewScalar(&b, false)},
		{Kind: Int, Value: NewScalar(&i, -2)},
		{Kind: Uint, Value: NewScalar(&u, 7)},
		{Kind: Hex, Value: NewScalar(&h, 0xabcdef)},
		{Kind: Size, Value: NewScalar(&sz, 1<<40)},
		{Kind: Float, Value: NewScalar(&f, 0.25)},
		{Kind: String, Value: NewText(&str, 16, "hello")},
		{Kind: Path, Value: NewText(&p, 0, "/etc/app.cfg")},
		{Kind: Dir, Value: NewText(&d, 0, "")},
		{Kind: StringOptions, Value: NewText(&opt, 0, "two"), Options: []string{"one", "two"}},
		{Kind: Bind, Value: NewBinding(&bnd, defBind)},
	}

	env := &Env{Paths: paths{}}
	for _, s := range settings {
		t.Run(s.Kind.String(), func(t *testing.T) {
			require.NoError(t, ResetToDefault(env, s))
			got, err := Get(s)
			require.NoError(t, err)
			def, err := Default(s)
			require.NoError(t, err)
			assert.Equal(t, def, got)
			assert.False(t, Modified(s))
		})
	}
}

func TestResetToDefault_ExpandsPaths(t *testing.T) {
	var p string
	s := &Setting{Kind: Dir, Value: NewText(&p, 0, "~/saves")}
	require.NoError(t, ResetToDefault(&Env{Paths: paths{}}, s))
	assert.Equal(t, "/home/test/saves", p)

	var str string
	plain := &Setting{Kind: String, Value: NewText(&str, 0, "~/saves")}
	require.NoError(t, ResetToDefault(&Env{Paths: paths{}}, plain))
	assert.Equal(t, "~/saves", str)
}

func TestResetToDefault_RunsChangeHandler(t *testing.T) {
	v := 5
	calls := 0
	s := &Setting{Kind: Int, Value: NewScalar(&v, 1), OnChange: func(*Setting) { calls++ }}
	require.NoError(t, ResetToDefault(nil, s))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, v)
}

func TestRevert(t *testing.T) {
	v := 5
	s := &Setting{Kind: Int, Value: NewScalar(&v, 1)}
	v = 9
	require.NoError(t, Revert(nil, s))
	assert.Equal(t, 5, v)
	assert.True(t, Modified(s))
}

func TestSetBinding(t *testing.T) {
	b := key.Unbound()
	s := &Setting{Kind: Bind, Value: NewBinding(&b, key.Unbound())}
	want := key.FromEvent(key.MustParse("q"))
	require.NoError(t, SetBinding(nil, s, want))
	assert.Equal(t, want, b)

	var x int
	assert.ErrorIs(t, SetBinding(nil, &Setting{Kind: Int, Value: NewScalar(&x, 0)}, want), ErrKindMismatch)
}

// set_from_text(stringify(x)) is idempotent for default-formatted
// String, Int, Uint and Float settings.
func TestRoundTrip_DefaultFormatter(t *testing.T) {
	var (
		str = "name"
		i   = -17
		u   uint
		f   = 1.23456
	)
	u = 88

	settings := []*Setting{
		{Kind: String, Value: NewText(&str, 32, "")},
		{Kind: Int, Value: NewScalar(&i, 0)},
		{Kind: Uint, Value: NewScalar(&u, 0)},
		{Kind: Float, Value: NewScalar(&f, 0)},
	}

	for _, s := range settings {
		t.Run(s.Kind.String(), func(t *testing.T) {
			require.NoError(t, SetFromText(nil, s, Stringify(nil, s)))
			once := Raw(s)
			require.NoError(t, SetFromText(nil, s, Stringify(nil, s)))
			assert.Equal(t, once, Raw(s))
		})
	}
	assert.InDelta(t, 1.23, f, 1e-12)
}

func TestRaw_RoundTripsExactly(t *testing.T) {
	var (
		h  uint = 0xdead
		f       = 0.1
		sz uint64
	)
	sz = 1 << 50
	b := key.FromEvent(key.MustParse("<A-F3>"))

	settings := []*Setting{
		{Kind: Hex, Value: NewScalar(&h, 0)},
		{Kind: Float, Value: NewScalar(&f, 0)},
		{Kind: Size, Value: NewScalar(&sz, 0)},
		{Kind: Bind, Value: NewBinding(&b, key.Unbound())},
	}
	for _, s := range settings {
		before, _ := Get(s)
		require.NoError(t, SetFromText(nil, s, Raw(s)))
		after, _ := Get(s)
		assert.Equal(t, before, after, s.Kind.String())
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 0))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("日本", 2))
	assert.Equal(t, "日", Truncate("日本", 4))
}

func TestPayloadAccessors(t *testing.T) {
	var u uint
	s := &Setting{Kind: Uint, Value: NewScalar(&u, 0)}
	_, ok := ScalarOf[uint](s)
	assert.True(t, ok)
	_, ok = ScalarOf[int](s)
	assert.False(t, ok)
	_, ok = TextOf(s)
	assert.False(t, ok)
	_, ok = BindingOf(nil)
	assert.False(t, ok)
}
