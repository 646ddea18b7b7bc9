package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName JSON codec 的 content-subtype ("application/grpc+json")
const CodecName = "json"

// jsonCodec 以 encoding/json 編解碼訊息
// 服務端依 content-subtype 自動選用，客戶端需帶 grpc.CallContentSubtype(CodecName)
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
