package xes

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/model"
	"github.com/PM4Rs/promi/stream"
)

const scenarioDoc = `<?xml version="1.0" encoding="UTF-8"?>
<log xes.version="1849.2016" xes.features="">
	<extension name="Concept" prefix="concept" uri="http://www.xes-standard.org/concept.xesext"/>
	<global scope="trace">
		<string key="concept:name" value="__INVALID__"/>
	</global>
	<trace>
		<event>
			<string key="concept:name" value="a"/>
		</event>
	</trace>
</log>`

func pullAll(t *testing.T, s stream.Stream) []stream.Item {
	t.Helper()
	var items []stream.Item
	for {
		item, err := s.Pull()
		if stderrors.Is(err, stream.EOS) {
			return items
		}
		require.NoError(t, err)
		items = append(items, item)
	}
}

func TestEndToEndScenario(t *testing.T) {
	r, err := NewReader(strings.NewReader(scenarioDoc))
	require.NoError(t, err)

	items := pullAll(t, r)
	require.Len(t, items, 4)

	meta, ok := items[0].(*stream.LogMeta)
	require.True(t, ok)
	assert.Equal(t, "1849.2016", meta.Version)
	require.Len(t, meta.Extensions, 1)
	assert.Equal(t, "concept", meta.Extensions[0].Prefix)
	require.Len(t, meta.Globals, 1)
	assert.Equal(t, model.ScopeTrace, meta.Globals[0].Scope)

	// the trace declares no attributes; the global default fills in
	start, ok := items[1].(*stream.TraceStart)
	require.True(t, ok)
	name, ok := start.Attributes.Get("concept:name")
	require.True(t, ok)
	assert.Equal(t, "__INVALID__", name.Text())

	event, ok := items[2].(*stream.Event)
	require.True(t, ok)
	name, ok = event.Attributes.Get("concept:name")
	require.True(t, ok)
	assert.Equal(t, "a", name.Text())

	_, ok = items[3].(*stream.TraceEnd)
	assert.True(t, ok)

	// EOS stays terminal
	_, err = r.Pull()
	assert.ErrorIs(t, err, stream.EOS)
	_, err = r.Pull()
	assert.ErrorIs(t, err, stream.EOS)
}

func TestDeclaredTraceNameNotOverwritten(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<global scope="trace"><string key="concept:name" value="__INVALID__"/></global>
		<trace>
			<string key="concept:name" value="case-1"/>
			<event><string key="activity" value="a"/></event>
		</trace>
	</log>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, r)
	require.Len(t, items, 4)

	start := items[1].(*stream.TraceStart)
	name, ok := start.Attributes.Get("concept:name")
	require.True(t, ok)
	assert.Equal(t, "case-1", name.Text())
}

func TestEventScopeDefaultFillIn(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<global scope="event"><string key="lifecycle:transition" value="complete"/></global>
		<trace><event><string key="activity" value="a"/></event></trace>
	</log>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, r)

	event := items[2].(*stream.Event)
	transition, ok := event.Attributes.Get("lifecycle:transition")
	require.True(t, ok)
	assert.Equal(t, "complete", transition.Text())
}

func TestUndeclaredPrefixStrictVersusLenient(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<trace>
			<event><string key="org:resource" value="alice"/></event>
		</trace>
	</log>`

	strict, err := NewReader(strings.NewReader(doc), WithStrict(true))
	require.NoError(t, err)
	_, err = strict.Pull() // meta
	require.NoError(t, err)
	_, err = strict.Pull() // trace start
	require.NoError(t, err)
	_, err = strict.Pull()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.ErrorIs(t, err, errors.ErrUnknownPrefix)

	lenient, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, lenient)
	require.Len(t, items, 4)
	event := items[2].(*stream.Event)
	assert.True(t, event.Attributes.Has("org:resource"))
	assert.NotEmpty(t, lenient.Warnings())
}

func TestDeclaredPrefixAccepted(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<extension name="Organizational" prefix="org" uri="http://www.xes-standard.org/org.xesext"/>
		<trace><event><string key="org:resource" value="alice"/></event></trace>
	</log>`

	r, err := NewReader(strings.NewReader(doc), WithStrict(true))
	require.NoError(t, err)
	items := pullAll(t, r)
	require.Len(t, items, 4)
	assert.Empty(t, r.Warnings())
}

func TestMalformedDateIsValueError(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<trace><event><date key="time:timestamp" value="not-a-date"/></event></trace>
	</log>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	_, err = r.Pull()
	require.NoError(t, err)
	_, err = r.Pull()
	require.NoError(t, err)
	_, err = r.Pull()
	require.Error(t, err)
	assert.True(t, errors.IsValue(err))
}

func TestAttributeValueParsing(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<trace>
			<event>
				<date key="when" value="2019-05-07T10:31:00.000+02:00"/>
				<int key="count" value="42"/>
				<float key="cost" value="2.5"/>
				<boolean key="ok" value="1"/>
				<boolean key="nope" value="false"/>
				<id key="ref" value="9b2f6d8c-3a51-4a41-b3c5-159d64ff1e28"/>
			</event>
		</trace>
	</log>`

	r, err := NewReader(strings.NewReader(doc), WithStrict(true))
	require.NoError(t, err)
	items := pullAll(t, r)
	event := items[2].(*stream.Event)

	count, _ := event.Attributes.Get("count")
	n, err := count.IntValue()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	ok, _ := event.Attributes.Get("ok")
	b, err := ok.BoolValue()
	require.NoError(t, err)
	assert.True(t, b)

	nope, _ := event.Attributes.Get("nope")
	b, err = nope.BoolValue()
	require.NoError(t, err)
	assert.False(t, b)

	when, _ := event.Attributes.Get("when")
	date, err := when.DateValue()
	require.NoError(t, err)
	assert.Equal(t, 2019, date.Year())
}

func TestStrictRejectsMalformedID(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<trace><event><id key="ref" value="not-a-uuid"/></event></trace>
	</log>`

	strict, err := NewReader(strings.NewReader(doc), WithStrict(true))
	require.NoError(t, err)
	err = stream.Drain(strict)
	require.Error(t, err)
	assert.True(t, errors.IsValue(err))

	lenient, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, lenient)
	require.Len(t, items, 4)
}

func TestListAttribute(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<trace>
			<event>
				<list key="entries">
					<string key="note" value="meta"/>
					<values>
						<int key="first" value="1"/>
						<int key="second" value="2"/>
					</values>
				</list>
			</event>
		</trace>
	</log>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, r)
	event := items[2].(*stream.Event)

	list, ok := event.Attributes.Get("entries")
	require.True(t, ok)
	values, err := list.ListValue()
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "first", values[0].Key)
	assert.Equal(t, "second", values[1].Key)

	note, ok := list.Children.Get("note")
	require.True(t, ok)
	assert.Equal(t, "meta", note.Text())
}

func TestNestedChildAttributes(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<trace>
			<event>
				<string key="activity" value="approve">
					<int key="attempt" value="2"/>
				</string>
			</event>
		</trace>
	</log>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, r)
	event := items[2].(*stream.Event)

	activity, ok := event.Attributes.Get("activity")
	require.True(t, ok)
	attempt, ok := activity.Children.Get("attempt")
	require.True(t, ok)
	assert.Equal(t, "2", attempt.Text())
}

func TestDuplicateGlobalScope(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<global scope="trace"><string key="a" value="1"/></global>
		<global scope="trace"><string key="b" value="2"/></global>
		<trace/>
	</log>`

	strict, err := NewReader(strings.NewReader(doc), WithStrict(true))
	require.NoError(t, err)
	_, err = strict.Pull()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.ErrorIs(t, err, errors.ErrDuplicateGlobal)

	lenient, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, lenient)
	meta := items[0].(*stream.LogMeta)
	require.Len(t, meta.Globals, 1)
	assert.True(t, meta.Globals[0].Attributes.Has("a"))
	assert.NotEmpty(t, lenient.Warnings())
}

func TestClassifierResolution(t *testing.T) {
	resolved := `<log xes.version="1849.2016">
		<extension name="Concept" prefix="concept" uri="http://www.xes-standard.org/concept.xesext"/>
		<classifier name="EventName" scope="event" keys="concept:name"/>
		<trace/>
	</log>`

	r, err := NewReader(strings.NewReader(resolved), WithStrict(true))
	require.NoError(t, err)
	items := pullAll(t, r)
	meta := items[0].(*stream.LogMeta)
	require.Len(t, meta.Classifiers, 1)
	assert.Equal(t, []string{"concept:name"}, meta.Classifiers[0].Keys)

	unresolved := `<log xes.version="1849.2016">
		<classifier name="EventName" scope="event" keys="concept:name"/>
		<trace/>
	</log>`

	strict, err := NewReader(strings.NewReader(unresolved), WithStrict(true))
	require.NoError(t, err)
	_, err = strict.Pull()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	lenient, err := NewReader(strings.NewReader(unresolved))
	require.NoError(t, err)
	pullAll(t, lenient)
	assert.NotEmpty(t, lenient.Warnings())
}

func TestEmptyTrace(t *testing.T) {
	doc := `<log xes.version="1849.2016"><trace/></log>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, r)
	require.Len(t, items, 3)
	_, ok := items[1].(*stream.TraceStart)
	assert.True(t, ok)
	_, ok = items[2].(*stream.TraceEnd)
	assert.True(t, ok)
}

func TestLogLevelEvent(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<trace><event><string key="k" value="in-trace"/></event></trace>
		<event><string key="k" value="bare"/></event>
	</log>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, r)
	require.Len(t, items, 5)

	bare, ok := items[4].(*stream.Event)
	require.True(t, ok)
	k, _ := bare.Attributes.Get("k")
	assert.Equal(t, "bare", k.Text())
}

func TestMetadataOnlyDocument(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<extension name="Concept" prefix="concept" uri="http://www.xes-standard.org/concept.xesext"/>
	</log>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, r)
	require.Len(t, items, 1)
	meta := items[0].(*stream.LogMeta)
	assert.Len(t, meta.Extensions, 1)
}

func TestStructuralErrorIsTerminalParseError(t *testing.T) {
	doc := `<log xes.version="1849.2016"><trace><event></trace></log>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)

	var firstErr error
	for {
		_, err := r.Pull()
		if err != nil {
			firstErr = err
			break
		}
	}
	require.Error(t, firstErr)
	assert.True(t, errors.IsParse(firstErr))

	// terminal: the error repeats
	_, err = r.Pull()
	assert.Equal(t, firstErr, err)
}

func TestNoRootElement(t *testing.T) {
	r, err := NewReader(strings.NewReader("   "))
	require.NoError(t, err)
	_, err = r.Pull()
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
}

func TestUnknownElementHandling(t *testing.T) {
	doc := `<log xes.version="1849.2016">
		<bogus><inner/></bogus>
		<trace><event><string key="k" value="v"/></event></trace>
	</log>`

	lenient, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	items := pullAll(t, lenient)
	require.Len(t, items, 4)
	assert.NotEmpty(t, lenient.Warnings())

	strict, err := NewReader(strings.NewReader(doc), WithStrict(true))
	require.NoError(t, err)
	_, err = strict.Pull()
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
}
