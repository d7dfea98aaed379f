package internal

import (
	"bytes"
	"sync"
)

// BufferPool holds scratch buffers for encoding log records off the tick path.
var BufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 64))
	},
}

func GetBuffer() *bytes.Buffer {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func PutBuffer(buf *bytes.Buffer) {
	BufferPool.Put(buf)
}
