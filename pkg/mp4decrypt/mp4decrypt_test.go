package mp4decrypt

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

// fakeEngine records one invocation and returns a scripted result.
type fakeEngine struct {
	status int
	out    []byte
	err    error

	plainCalls     int
	fragmentsCalls int
	gotData        []byte
	gotFragments   []byte
	gotKeyIDs      []string
	gotKeys        []string
}

func (f *fakeEngine) DecryptInMemory(data []byte, keyIDs, keys []string) (int, []byte, error) {
	f.plainCalls++
	f.gotData = data
	f.gotKeyIDs = keyIDs
	f.gotKeys = keys
	return f.status, f.out, f.err
}

func (f *fakeEngine) DecryptInMemoryWithFragmentsInfo(data, fragmentsInfo []byte, keyIDs, keys []string) (int, []byte, error) {
	f.fragmentsCalls++
	f.gotData = data
	f.gotFragments = fragmentsInfo
	f.gotKeyIDs = keyIDs
	f.gotKeys = keys
	return f.status, f.out, f.err
}

func (f *fakeEngine) calls() int { return f.plainCalls + f.fragmentsCalls }

func TestDecryptPassesEveryKeyPair(t *testing.T) {
	keys := map[string]string{
		"eb676abbcb345e96bbcf616630f1a3da": "100b6c20940f779a4589152b57d2dacb",
		"1077efecc0b24d02ace33c1e52e2fb4b": "a2e5ad9d81cda868d85ed0c7e36e2b37",
		"1":                                "2b2c5e1b52b18e1c0c2b2e5ad9d81cda",
	}
	eng := &fakeEngine{out: []byte{1}}

	if _, err := decrypt(eng, []byte{0, 0}, keys, nil); err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if len(eng.gotKeyIDs) != 3 || len(eng.gotKeys) != 3 {
		t.Fatalf("engine received %d ids / %d keys, want 3 / 3",
			len(eng.gotKeyIDs), len(eng.gotKeys))
	}
	for i, id := range eng.gotKeyIDs {
		if keys[id] != eng.gotKeys[i] {
			t.Errorf("pair %d: id %q carried key %q, want %q", i, id, eng.gotKeys[i], keys[id])
		}
	}
}

func TestDecryptSelectsPlainEntryPoint(t *testing.T) {
	eng := &fakeEngine{}

	if _, err := decrypt(eng, []byte{1, 2, 3}, nil, nil); err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if eng.plainCalls != 1 || eng.fragmentsCalls != 0 {
		t.Errorf("plain=%d fragments=%d, want exactly one plain call",
			eng.plainCalls, eng.fragmentsCalls)
	}
}

func TestDecryptSelectsFragmentsEntryPoint(t *testing.T) {
	eng := &fakeEngine{}
	fragments := []byte{0, 0, 0, 8, 'm', 'o', 'o', 'v'}

	if _, err := decrypt(eng, []byte{1, 2, 3}, nil, fragments); err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if eng.plainCalls != 0 || eng.fragmentsCalls != 1 {
		t.Errorf("plain=%d fragments=%d, want exactly one fragments call",
			eng.plainCalls, eng.fragmentsCalls)
	}
	if !bytes.Equal(eng.gotFragments, fragments) {
		t.Errorf("fragments info arrived as %v, want %v", eng.gotFragments, fragments)
	}
}

func TestDecryptEmptyFragmentsStillRoutesFragments(t *testing.T) {
	// Presence is nil-ness, not length.
	eng := &fakeEngine{}

	if _, err := decrypt(eng, []byte{1}, nil, []byte{}); err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if eng.fragmentsCalls != 1 {
		t.Error("empty non-nil fragments info must select the fragments entry point")
	}
}

func oversized(t *testing.T) []byte {
	t.Helper()
	const n = int64(math.MaxUint32) + 1
	if int64(int(n)) != n {
		t.Skip("address space too small for an oversized stream")
	}
	return make([]byte, int(n))
}

func TestDecryptRejectsOversizedData(t *testing.T) {
	eng := &fakeEngine{}

	_, err := decrypt(eng, oversized(t), nil, nil)
	if !IsDataTooLarge(err) {
		t.Fatalf("err = %v, want DataTooLarge", err)
	}
	if got, want := err.Error(), "the input data stream is too large."; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if eng.calls() != 0 {
		t.Error("oversized data must be rejected before any engine call")
	}
}

func TestDecryptRejectsOversizedFragmentsInfo(t *testing.T) {
	eng := &fakeEngine{}

	_, err := decrypt(eng, []byte{1}, nil, oversized(t))
	if !IsDataTooLarge(err) {
		t.Fatalf("err = %v, want DataTooLarge", err)
	}
	if got, want := err.Error(), "the fragments info data stream is too large."; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if eng.calls() != 0 {
		t.Error("oversized fragments info must be rejected before any engine call")
	}
}

func TestDecryptEmptyDeliveryIsSuccess(t *testing.T) {
	eng := &fakeEngine{status: 0, out: nil}

	out, err := decrypt(eng, []byte{1, 2}, nil, nil)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Errorf("out = %v, want owned empty buffer", out)
	}
}

func TestDecryptDiscardsDeliveryOnFailure(t *testing.T) {
	eng := &fakeEngine{status: 73, out: []byte("partial stream")}

	out, err := decrypt(eng, []byte{1, 2}, nil, nil)
	if out != nil {
		t.Errorf("out = %v, want nil alongside a failure", out)
	}
	if !IsFailed(err) {
		t.Fatalf("err = %v, want Failed", err)
	}
	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if derr.Code != 73 {
		t.Errorf("err carried code %d, want 73", derr.Code)
	}
}

func TestDecryptRejectsNULInKeyID(t *testing.T) {
	eng := &fakeEngine{}
	keys := map[string]string{"bad\x00id": "100b6c20940f779a4589152b57d2dacb"}

	_, err := decrypt(eng, []byte{1}, keys, nil)
	if !IsInvalidFormat(err) {
		t.Fatalf("err = %v, want InvalidFormat", err)
	}
	if eng.calls() != 0 {
		t.Error("NUL bytes must be rejected before any engine call")
	}
}

func TestDecryptRejectsNULInKey(t *testing.T) {
	eng := &fakeEngine{}
	keys := map[string]string{"1": "bad\x00key"}

	_, err := decrypt(eng, []byte{1}, keys, nil)
	if !IsInvalidFormat(err) {
		t.Fatalf("err = %v, want InvalidFormat", err)
	}
	if eng.calls() != 0 {
		t.Error("NUL bytes must be rejected before any engine call")
	}
}

func TestDecryptEngineUnreachable(t *testing.T) {
	eng := &fakeEngine{err: errors.New("dlopen: no such file")}

	_, err := decrypt(eng, []byte{1}, nil, nil)
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("err = %v, want ErrEngineUnavailable", err)
	}
	if IsFailed(err) || IsInvalidFormat(err) || IsDataTooLarge(err) {
		t.Error("reachability failures must stay outside the decrypt taxonomy")
	}
}
