package bufpool

import "testing"

func TestPoolGetPutReuse(t *testing.T) {
	p := &Pool{}
	buf := p.Get()
	buf.WriteString("hello")
	p.Put(buf)

	buf2 := p.Get()
	if len(buf2.B) != 0 {
		t.Errorf("reused buffer should be reset, got %q", buf2.B)
	}
}

func TestBorrowCopiesAndReleases(t *testing.T) {
	src := []byte("payload")
	data, release := Borrow(src)
	if string(data) != "payload" {
		t.Fatalf("Borrow data = %q, want %q", data, src)
	}
	src[0] = 'X'
	if string(data) != "payload" {
		t.Errorf("Borrow result should not alias src, got %q after mutating src", data)
	}
	release()
}
