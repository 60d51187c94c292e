package Contour

import (
	"math"

	"github.com/paulmach/orb"
)

// chaikinOnce 一次切角：每条边被1/4与3/4处的两点取代
func chaikinOnce(line orb.LineString, isClosed bool) orb.LineString {
	n := len(line)
	if n < 3 {
		return line
	}

	var out orb.LineString
	if isClosed {
		// 闭合折线对所有边切角，含首尾回绕边
		out = make(orb.LineString, 0, 2*n)
		for i := 0; i < n; i++ {
			p := line[i]
			q := line[(i+1)%n]
			out = append(out,
				orb.Point{0.75*p[0] + 0.25*q[0], 0.75*p[1] + 0.25*q[1]},
				orb.Point{0.25*p[0] + 0.75*q[0], 0.25*p[1] + 0.75*q[1]},
			)
		}
		return out
	}

	// 开放折线保留首尾端点
	out = make(orb.LineString, 0, 2*n)
	out = append(out, line[0])
	for i := 0; i < n-1; i++ {
		p := line[i]
		q := line[i+1]
		out = append(out,
			orb.Point{0.75*p[0] + 0.25*q[0], 0.75*p[1] + 0.25*q[1]},
			orb.Point{0.25*p[0] + 0.75*q[0], 0.25*p[1] + 0.75*q[1]},
		)
	}
	out = append(out, line[n-1])
	return out
}

// SmoothContours 对等值线做Chaikin切角平滑
// 迭代次数为 round(factor*4)，至少1次
func SmoothContours(contours []*ContourLine, factor float64) {
	iterations := int(math.Round(factor * 4))
	if iterations < 1 {
		iterations = 1
	}
	for _, cl := range contours {
		for i, line := range cl.Lines {
			isClosed := i < len(cl.Closed) && cl.Closed[i]
			for it := 0; it < iterations; it++ {
				line = chaikinOnce(line, isClosed)
			}
			cl.Lines[i] = line
		}
	}
}
