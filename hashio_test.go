package hashio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	hashio "github.com/rpcpool/hashio"
	"github.com/rpcpool/hashio/collections"
	"github.com/rpcpool/hashio/examples/task"
	"github.com/rpcpool/hashio/examples/testtype"
	"github.com/rpcpool/hashio/hash"
	"github.com/rpcpool/hashio/store/storetest"
)

func TestPutGetRoundTrip(t *testing.T) {
	s := storetest.New()
	v := testtype.New(42, "hello")

	require.NoError(t, hashio.Put[testtype.TestType, *testtype.TestType](s, v))

	h, err := hashio.ContentHash(v)
	require.NoError(t, err)

	got, err := hashio.Get[testtype.TestType, *testtype.TestType](s, h)
	require.NoError(t, err)
	require.Equal(t, uint32(42), got.X)
	require.Equal(t, "hello", got.A.Value)
}

func TestPutIsIdempotentAcrossSharedChildren(t *testing.T) {
	s := storetest.New()

	shared := collections.NewStr("shared")
	v1 := &testtype.TestType{X: 1, A: shared}
	v2 := &testtype.TestType{X: 2, A: shared}

	require.NoError(t, hashio.Put[testtype.TestType, *testtype.TestType](s, v1))
	writesAfterFirst := s.Writes

	require.NoError(t, hashio.Put[testtype.TestType, *testtype.TestType](s, v2))
	// v2 has a distinct primitive field, so it contributes one new record
	// blob, but must not re-write the shared "shared" string blob.
	require.Equal(t, writesAfterFirst+1, s.Writes)
}

func TestPutOfIdenticalValueWritesOnce(t *testing.T) {
	s := storetest.New()
	v := testtype.New(7, "dup")

	require.NoError(t, hashio.Put[testtype.TestType, *testtype.TestType](s, v))
	after := s.Writes

	require.NoError(t, hashio.Put[testtype.TestType, *testtype.TestType](s, v))
	require.Equal(t, after, s.Writes)
}

func TestGetUnknownHashFails(t *testing.T) {
	s := storetest.New()
	_, err := hashio.Get[testtype.TestType, *testtype.TestType](s, hash.HashString("never written"))
	require.Error(t, err)
}

func TestGetMigratesRetiredSchemaViaTypeHashFallback(t *testing.T) {
	s := storetest.New()

	old := &task.Task1{Factor: 1.5, Title: collections.NewStr("legacy task")}
	require.NoError(t, hashio.Put[task.Task1, *task.Task1](s, old))

	h, err := hashio.ContentHash(old)
	require.NoError(t, err)

	lifted, err := hashio.Get[task.Task, *task.Task](s, h)
	require.NoError(t, err)
	require.Equal(t, float32(1.5), lifted.Factor)
	require.Equal(t, "legacy task", lifted.Title.Value)
	require.Equal(t, "", lifted.Category.Value)
}

func TestGetMigratesRetiredContainerSchema(t *testing.T) {
	s := storetest.New()

	oldTasks := collections.NewSeq[task.Task1, *task.Task1](
		&task.Task1{Factor: 1, Title: collections.NewStr("a")},
		&task.Task1{Factor: 2, Title: collections.NewStr("b")},
	)
	oldStorage := &task.TaskStorage1{Tasks: oldTasks}
	require.NoError(t, hashio.Put[task.TaskStorage1, *task.TaskStorage1](s, oldStorage))

	h, err := hashio.ContentHash(oldStorage)
	require.NoError(t, err)

	lifted, err := hashio.Get[task.TaskStorage, *task.TaskStorage](s, h)
	require.NoError(t, err)
	require.Len(t, lifted.Tasks.Items, 2)
	require.Equal(t, "a", lifted.Tasks.Items[0].Title.Value)
	require.Equal(t, "", lifted.Tasks.Items[0].Category.Value)
}

func TestGetRejectsUnrelatedTypeHash(t *testing.T) {
	s := storetest.New()
	// A TestType blob carries a valid version-1 envelope whose type-hash is
	// neither Task's nor any of its declared ancestors'.
	other := testtype.New(3, "not a task")
	require.NoError(t, hashio.Put[testtype.TestType, *testtype.TestType](s, other))

	h, err := hashio.ContentHash(other)
	require.NoError(t, err)

	_, err = hashio.Get[task.Task, *task.Task](s, h)
	var typeErr *hashio.TypeError
	require.ErrorAs(t, err, &typeErr)
}
