package animation

import "sort"

var examples = map[string]string{
	"basic": `// 基础动画示例
function setup() {
  createCanvas(400, 400);
}

function draw() {
  background(20);

  // 绘制旋转的正方形
  push();
  translate(width/2, height/2);
  rotate(frameCount * 0.02);
  fill(100, 150, 255);
  rectMode(CENTER);
  rect(0, 0, 100, 100);
  pop();

  fill(255);
  text('Frame: ' + frameCount, 10, 20);
}`,

	"sine": `// 正弦波动画
let angle = 0;

function setup() {
  createCanvas(400, 400);
}

function draw() {
  background(20);

  stroke(100, 150, 255);
  strokeWeight(2);
  noFill();

  beginShape();
  for (let x = 0; x < width; x += 5) {
    let y = height/2 + sin(angle + x * 0.02) * 100;
    vertex(x, y);
  }
  endShape();

  // 沿曲线移动的点
  let x = (frameCount * 2) % width;
  let y = height/2 + sin(angle + x * 0.02) * 100;
  fill(255, 100, 100);
  noStroke();
  circle(x, y, 10);

  angle += 0.02;
}`,

	"fractal": `// 简单分形树
function setup() {
  createCanvas(400, 400);
}

function draw() {
  background(20);
  stroke(150, 255, 150);
  strokeWeight(2);
  translate(width/2, height);
  branch(80);
}

function branch(len) {
  line(0, 0, 0, -len);
  translate(0, -len);
  if (len > 4) {
    push();
    rotate(PI/6);
    branch(len * 0.67);
    pop();

    push();
    rotate(-PI/6);
    branch(len * 0.67);
    pop();
  }
}`,
}

// Example returns a bundled example sketch; unknown names fall back to "basic".
func Example(name string) string {
	if code, ok := examples[name]; ok {
		return code
	}
	return examples["basic"]
}

// ExampleNames lists the bundled examples.
func ExampleNames() []string {
	names := make([]string, 0, len(examples))
	for n := range examples {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
