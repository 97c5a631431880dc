package quiz

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"quizbank/internal"
)

var (
	ErrInputClosed = eris.New("quiz: input closed")

	yesSet = map[string]bool{"YES": true, "Y": true}
)

type Score struct {
	Correct int
	Total   int
}

func (s Score) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Correct) / float64(s.Total)
}

// Session serves rounds of randomly drawn questions over a text stream.
type Session struct {
	pool []internal.QuestionRecord
	rng  *rand.Rand
	in   *bufio.Scanner
	out  io.Writer
}

func NewSession(pool []internal.QuestionRecord, rng *rand.Rand, in io.Reader, out io.Writer) *Session {
	return &Session{pool: pool, rng: rng, in: bufio.NewScanner(in), out: out}
}

// Run loops over rounds until the user asks for zero questions, declines
// another round, or input ends.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "题库题目总数为：%d\n\n", len(s.pool))
	defer fmt.Fprintln(s.out, "再见！")

	if len(s.pool) == 0 {
		return nil
	}

	for {
		n, ok := s.askCount()
		if !ok || n == 0 {
			return nil
		}

		score, err := s.Round(ctx, n)
		if err != nil {
			if eris.Is(err, ErrInputClosed) {
				return nil
			}
			return err
		}
		zap.L().Debug("round finished", zap.Int("correct", score.Correct), zap.Int("total", score.Total))

		fmt.Fprint(s.out, "是否继续新一轮作答？\n输入 y (yes) 或 n (no)：")
		line, ok := s.readLine()
		if !ok || !yesSet[strings.ToUpper(strings.TrimSpace(line))] {
			return nil
		}
	}
}

// Round asks n distinct questions and prints the summary.
func (s *Session) Round(ctx context.Context, n int) (Score, error) {
	picked := s.Draw(n)
	score := Score{Total: len(picked)}

	for i, idx := range picked {
		if err := ctx.Err(); err != nil {
			return score, err
		}

		q := NewQuestion(s.pool[idx], i+1, s.rng)
		fmt.Fprintln(s.out, q.String())
		fmt.Fprint(s.out, "请输入答案（判断题请用 T 或 F 表示）：")

		line, ok := s.readLine()
		if !ok {
			return score, ErrInputClosed
		}
		direct, correct := q.Check(line)
		if correct {
			score.Correct++
			fmt.Fprintf(s.out, "回答正确！你的选项为 %s\n\n", direct)
		} else {
			fmt.Fprintf(s.out, "回答错误！你的选项为 %s ，正确答案为 %s\n\n", direct, q.VisualAnswer)
		}
	}

	fmt.Fprintf(s.out, "本轮作答完毕，正确作答个数：%d，错误作答个数：%d，你的正确率为：%.2f%%\n",
		score.Correct, score.Total-score.Correct, score.Percent())
	return score, nil
}

// Draw picks up to n distinct pool indexes.
func (s *Session) Draw(n int) []int {
	if n > len(s.pool) {
		n = len(s.pool)
	}
	if n <= 0 {
		return nil
	}
	return s.rng.Perm(len(s.pool))[:n]
}

func (s *Session) askCount() (int, bool) {
	for {
		fmt.Fprint(s.out, "请输入测试题目数量：")
		line, ok := s.readLine()
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 0 {
			fmt.Fprintln(s.out, "请输入一个非负整数")
			continue
		}
		if n > len(s.pool) {
			fmt.Fprintf(s.out, "题库只有 %d 道题，本轮全部作答\n", len(s.pool))
		}
		return n, true
	}
}

func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}
