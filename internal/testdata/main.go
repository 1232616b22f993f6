package testdata

import "git.lost.host/meutraa/judgeline/internal/game"

// Chart returns the fixture text for a format. Every fixture describes the
// same first line: a tap at 1s, a hold from 2s to 3s and a note at 4s.
func Chart(format game.ChartFormat) string {
	switch format {
	case game.FormatPgr:
		return Phigros
	case game.FormatRpe:
		return RPE
	}
	return PEC
}

// Phigros is formatVersion 3. Line 0 runs at 120bpm (1/32 beat = 0.015625s),
// line 1 at 60bpm and slides from x=0 to x=1 between 1s and 2s.
const Phigros = `{
  "formatVersion": 3,
  "offset": 0.05,
  "judgeLineList": [
    {
      "bpm": 120,
      "notesAbove": [
        {"type": 4, "time": 256, "positionX": -2.0, "holdTime": 0, "speed": 1.0, "floorPosition": 0},
        {"type": 1, "time": 64, "positionX": 0.0, "holdTime": 0, "speed": 1.0, "floorPosition": 0}
      ],
      "notesBelow": [
        {"type": 3, "time": 128, "positionX": 4.0, "holdTime": 64, "speed": 2.5, "floorPosition": 0}
      ],
      "speedEvents": [{"startTime": 0, "endTime": 1000000000, "value": 2.0}],
      "judgeLineMoveEvents": [
        {"startTime": -999999, "endTime": 1000000000, "start": 0.5, "end": 0.5, "start2": 0.5, "end2": 0.5}
      ],
      "judgeLineRotateEvents": [
        {"startTime": -999999, "endTime": 1000000000, "start": 0, "end": 0}
      ],
      "judgeLineDisappearEvents": [
        {"startTime": -999999, "endTime": 1000000000, "start": 1, "end": 1}
      ]
    },
    {
      "bpm": 60,
      "notesAbove": [],
      "notesBelow": [
        {"type": 2, "time": 160, "positionX": 0.0, "holdTime": 0, "speed": 1.0, "floorPosition": 0}
      ],
      "speedEvents": [],
      "judgeLineMoveEvents": [
        {"startTime": -999999, "endTime": 32, "start": 0.5, "end": 0.5, "start2": 0.5, "end2": 0.5},
        {"startTime": 32, "endTime": 64, "start": 0.5, "end": 1.0, "start2": 0.5, "end2": 0.5},
        {"startTime": 64, "endTime": 1000000000, "start": 1.0, "end": 1.0, "start2": 0.5, "end2": 0.5}
      ],
      "judgeLineRotateEvents": [],
      "judgeLineDisappearEvents": [
        {"startTime": -999999, "endTime": 1000000000, "start": 0.5, "end": 0.5}
      ]
    }
  ]
}`

// RPE runs at 120bpm: beat 2 = 1s. The note at beat 8 is fake.
const RPE = `{
  "META": {"RPEVersion": 140, "offset": 20, "name": "fixture"},
  "BPMList": [{"startTime": [0, 0, 1], "bpm": 120}],
  "judgeLineList": [
    {
      "eventLayers": [
        {
          "moveXEvents": [
            {"startTime": [0, 0, 1], "endTime": [4, 0, 1], "start": 0, "end": 675, "easingType": 1}
          ],
          "alphaEvents": [
            {"startTime": [0, 0, 1], "endTime": [1, 0, 1], "start": 0, "end": 255, "easingType": 1}
          ],
          "speedEvents": [
            {"startTime": [0, 0, 1], "endTime": [4, 0, 1], "start": 9, "end": 9}
          ]
        },
        null,
        {
          "moveYEvents": [
            {"startTime": [0, 0, 1], "endTime": [2, 0, 1], "start": 45, "end": 45, "easingType": 1}
          ],
          "speedEvents": [
            {"startTime": [0, 0, 1], "endTime": [4, 0, 1], "start": 9, "end": 9}
          ]
        }
      ],
      "notes": [
        {"type": 2, "startTime": [4, 0, 1], "endTime": [6, 0, 1], "positionX": 337.5, "above": 2, "speed": 1, "isFake": 0},
        {"type": 1, "startTime": [2, 0, 1], "endTime": [2, 0, 1], "positionX": 0, "above": 1, "speed": 1.5, "isFake": 0},
        {"type": 4, "startTime": [8, 0, 1], "endTime": [8, 0, 1], "positionX": -135, "above": 1, "speed": 1, "isFake": 1}
      ]
    }
  ]
}`

// PEC runs at 120bpm. Line 1 only sets its speed so its position and
// opacity come from the synthesized defaults.
const PEC = `0
bp 0.00 120.00
cp 0 0.00 1024.00 700.00
cd 0 0.00 0.00
ca 0 0.00 255
cm 0 4.00 8.00 2048.00 700.00 1
n1 0 2.00 512.00 1 0
# 1.50
& 1.00
n2 0 4.00 6.00 0.00 2 0
# 1.00
& 1.00
cv 1 0.00 7.00
n4 1 8.00 -256.00 1 1
# 1.00
& 1.00
`

// Judge is a single Phigros line at 120bpm holding a tap at 5s and a hold at
// 2s lasting 1s, both at the line center.
const Judge = `{
  "formatVersion": 3,
  "offset": 0,
  "judgeLineList": [
    {
      "bpm": 120,
      "notesAbove": [
        {"type": 1, "time": 320, "positionX": 0, "holdTime": 0, "speed": 1},
        {"type": 3, "time": 128, "positionX": 0, "holdTime": 64, "speed": 1}
      ],
      "notesBelow": [],
      "judgeLineMoveEvents": [
        {"startTime": -999999, "endTime": 1000000000, "start": 0.5, "end": 0.5, "start2": 0.5, "end2": 0.5}
      ],
      "judgeLineRotateEvents": [
        {"startTime": -999999, "endTime": 1000000000, "start": 0, "end": 0}
      ],
      "judgeLineDisappearEvents": [
        {"startTime": -999999, "endTime": 1000000000, "start": 1, "end": 1}
      ]
    }
  ]
}`
