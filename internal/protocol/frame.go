package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// 帧头大小：4 bytes length + 1 byte frame type
	FrameHeaderSize = 5

	// 上行帧类型
	FrameTypeJoin    byte = 1 // 加入请求（JoinRequest）
	FrameTypeCommand byte = 2 // 会话指令（Command）

	// 下行帧类型
	FrameTypeJoinAck byte = 3 // 加入响应
	FrameTypeEvent   byte = 4 // 服务端事件（Event）

	// 单帧最大长度，超出视为协议错误
	maxFrameSize = 1 << 20
)

// ReadFrame 从流中读取一个完整的帧，返回帧类型和消息体
func ReadFrame(r io.Reader) (byte, []byte, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}

	length := binary.BigEndian.Uint32(header[:4])
	frameType := header[4]

	if length > maxFrameSize {
		return 0, nil, fmt.Errorf("frame too large: %d bytes", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}

	return frameType, body, nil
}

// EncodeFrame 编码一个带帧头的完整帧
func EncodeFrame(frameType byte, body []byte) []byte {
	frame := make([]byte, FrameHeaderSize+len(body))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(body)))
	frame[4] = frameType
	copy(frame[FrameHeaderSize:], body)
	return frame
}
