package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

// TestFrameRoundTrip 测试帧编码后能完整读回
func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		frameType byte
		body      []byte
	}{
		{"join帧", FrameTypeJoin, []byte(`{"userId":1,"token":"abc"}`)},
		{"指令帧", FrameTypeCommand, []byte(`{"event":"sendMessage"}`)},
		{"空消息体", FrameTypeEvent, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := EncodeFrame(tt.frameType, tt.body)

			frameType, body, err := ReadFrame(bytes.NewReader(frame))
			if err != nil {
				t.Fatalf("ReadFrame 失败: %v", err)
			}
			if frameType != tt.frameType {
				t.Errorf("帧类型不匹配: 期望 %d，得到 %d", tt.frameType, frameType)
			}
			if !bytes.Equal(body, tt.body) {
				t.Errorf("消息体不匹配: 期望 %q，得到 %q", tt.body, body)
			}
		})
	}
}

// TestReadFrameMultiple 测试从同一个流中连续读取多个帧
func TestReadFrameMultiple(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(EncodeFrame(FrameTypeJoin, []byte("first")))
	buf.Write(EncodeFrame(FrameTypeCommand, []byte("second")))

	frameType, body, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("读取第一帧失败: %v", err)
	}
	if frameType != FrameTypeJoin || string(body) != "first" {
		t.Errorf("第一帧不匹配: type=%d body=%q", frameType, body)
	}

	frameType, body, err = ReadFrame(&buf)
	if err != nil {
		t.Fatalf("读取第二帧失败: %v", err)
	}
	if frameType != FrameTypeCommand || string(body) != "second" {
		t.Errorf("第二帧不匹配: type=%d body=%q", frameType, body)
	}

	// 流结束
	_, _, err = ReadFrame(&buf)
	if err != io.EOF {
		t.Errorf("期望 EOF，得到 %v", err)
	}
}

// TestReadFrameTruncated 测试不完整的帧返回错误
func TestReadFrameTruncated(t *testing.T) {
	frame := EncodeFrame(FrameTypeCommand, []byte("hello"))

	// 只给帧头和一半消息体
	_, _, err := ReadFrame(bytes.NewReader(frame[:FrameHeaderSize+2]))
	if err == nil {
		t.Error("不完整的帧应该返回错误")
	}
}

// TestReadFrameTooLarge 测试超长帧被拒绝
func TestReadFrameTooLarge(t *testing.T) {
	header := make([]byte, FrameHeaderSize)
	binary.BigEndian.PutUint32(header[:4], maxFrameSize+1)
	header[4] = FrameTypeCommand

	_, _, err := ReadFrame(bytes.NewReader(header))
	if err == nil {
		t.Error("超长帧应该返回错误")
	}
}
