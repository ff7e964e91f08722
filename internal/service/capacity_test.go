package service

import (
	"testing"

	"mews-mentor/backend/internal/model"
)

func TestRawRemainingCapacity(t *testing.T) {
	mentor := &model.Participant{ParticipantID: "a-1", CapacityRemaining: 3}

	approved := map[string]int{"a-1": 2}
	pending := map[string]int{"a-1": 2}

	// 3 - 2 - 2 = -1, 原始值允许为负（超额状态）
	if got := RawRemainingCapacity(mentor, approved, pending); got != -1 {
		t.Errorf("期望原始余量=-1，实际=%d", got)
	}
}

func TestEffectiveRemainingCapacity_NeverNegative(t *testing.T) {
	mentor := &model.Participant{ParticipantID: "a-1", CapacityRemaining: 1}

	approved := map[string]int{"a-1": 3}
	if got := EffectiveRemainingCapacity(mentor, approved, nil); got != 0 {
		t.Errorf("对外展示余量不应为负，实际=%d", got)
	}

	// 未被占用时返回名义容量
	if got := EffectiveRemainingCapacity(mentor, nil, nil); got != 1 {
		t.Errorf("期望余量=1，实际=%d", got)
	}
}

func TestEffectiveRemainingCapacity_FreshPerRead(t *testing.T) {
	mentor := &model.Participant{ParticipantID: "a-1", CapacityRemaining: 2}
	approved := map[string]int{}

	if got := EffectiveRemainingCapacity(mentor, approved, nil); got != 2 {
		t.Fatalf("期望余量=2，实际=%d", got)
	}

	// 批准一个学员后, 下一次读取必须立刻反映新状态
	approved["a-1"] = 1
	if got := EffectiveRemainingCapacity(mentor, approved, nil); got != 1 {
		t.Errorf("批准后期望余量=1，实际=%d", got)
	}
}

func TestMentorLoadFactor(t *testing.T) {
	mentor := &model.Participant{ParticipantID: "a-1", CapacityRemaining: 4}

	if got := MentorLoadFactor(mentor, nil, nil); got != 0 {
		t.Errorf("空闲导师负载应为 0，实际=%v", got)
	}

	approved := map[string]int{"a-1": 2}
	if got := MentorLoadFactor(mentor, approved, nil); got != 0.5 {
		t.Errorf("期望负载=0.5，实际=%v", got)
	}

	approved["a-1"] = 6
	if got := MentorLoadFactor(mentor, approved, nil); got != 1 {
		t.Errorf("超额导师负载应钳制为 1，实际=%v", got)
	}

	// 名义容量为 0 视为满载
	zero := &model.Participant{ParticipantID: "a-2", CapacityRemaining: 0}
	if got := MentorLoadFactor(zero, nil, nil); got != 1 {
		t.Errorf("零容量导师负载应为 1，实际=%v", got)
	}
}
