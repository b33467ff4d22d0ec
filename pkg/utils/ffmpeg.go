package utils

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// MediaDuration 通过 ffmpeg 读取媒体文件时长
func MediaDuration(path string) (time.Duration, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, errors.WithMessage(err, "Failed to read media info")
	}
	return ParseMediaDuration(out)
}

// ParseMediaDuration 解析 ffmpeg 输出的 json, 优先取 format.duration
func ParseMediaDuration(info string) (time.Duration, error) {
	d := gjson.Get(info, "format.duration")
	if !d.Exists() {
		d = gjson.Get(info, `streams.#(codec_type=="video").duration`)
	}
	if !d.Exists() {
		return 0, errors.New("duration missing from media info")
	}
	return time.Duration(d.Float() * float64(time.Second)), nil
}
